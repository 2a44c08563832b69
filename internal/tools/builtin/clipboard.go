package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func clipboardTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "clipboard.read",
			Description: "Read the current clipboard contents",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.clipboard"},
			HandlerID:   "clipboard.read",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return b.ClipboardRead(withContext(ctx))
			},
		},
		{
			Name:        "clipboard.write",
			Description: "Write text to the clipboard",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.clipboard"},
			HandlerID:   "clipboard.write",
			ArgSchema: map[string]tools.ArgProperty{
				"text": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				text, err := argString(args, "text")
				if err != nil {
					return nil, err
				}
				return nil, b.ClipboardWrite(withContext(ctx), text)
			},
		},
	}
}
