package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func appsTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "apps.open",
			Description: "Open an application by name or path, with optional arguments",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.window"},
			HandlerID:   "apps.open",
			ArgSchema: map[string]tools.ArgProperty{
				"target": {Type: "string", Required: true},
				"args":   {Type: "string"},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				target, err := argString(args, "target")
				if err != nil {
					return nil, err
				}
				argv, err := splitArgString(args)
				if err != nil {
					return nil, err
				}
				return nil, b.OpenApp(withContext(ctx), target, argv)
			},
		},
		{
			Name:        "apps.close",
			Description: "Close an application by name",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.window"},
			HandlerID:   "apps.close",
			ArgSchema: map[string]tools.ArgProperty{
				"name": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := argString(args, "name")
				if err != nil {
					return nil, err
				}
				return nil, b.CloseApp(withContext(ctx), name)
			},
		},
		{
			Name:        "apps.focus",
			Description: "Bring an application's window to the foreground",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.window"},
			HandlerID:   "apps.focus",
			ArgSchema: map[string]tools.ArgProperty{
				"name": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := argString(args, "name")
				if err != nil {
					return nil, err
				}
				return nil, b.FocusApp(withContext(ctx), name)
			},
		},
	}
}
