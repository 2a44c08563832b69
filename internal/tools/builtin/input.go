package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func inputTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "input.type",
			Description: "Type text into the focused window",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.input"},
			HandlerID:   "input.type",
			ArgSchema: map[string]tools.ArgProperty{
				"text": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				text, err := argString(args, "text")
				if err != nil {
					return nil, err
				}
				return nil, b.TypeText(withContext(ctx), text)
			},
		},
		{
			Name:        "input.key",
			Description: "Send a single key press to the focused window",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.input"},
			HandlerID:   "input.key",
			ArgSchema: map[string]tools.ArgProperty{
				"key": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				key, err := argString(args, "key")
				if err != nil {
					return nil, err
				}
				return nil, b.PressKey(withContext(ctx), key)
			},
		},
		{
			Name:        "input.click",
			Description: "Click at an absolute screen coordinate",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.input"},
			HandlerID:   "input.click",
			ArgSchema: map[string]tools.ArgProperty{
				"x": {Type: "int", Required: true},
				"y": {Type: "int", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				x, err := argInt(args, "x")
				if err != nil {
					return nil, err
				}
				y, err := argInt(args, "y")
				if err != nil {
					return nil, err
				}
				return nil, b.Click(withContext(ctx), x, y)
			},
		},
	}
}
