package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func desktopTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "desktop.screenshot",
			Description: "Capture the screen to an image file",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.display"},
			HandlerID:   "desktop.screenshot",
			ArgSchema: map[string]tools.ArgProperty{
				"out_path": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				path, err := argString(args, "out_path")
				if err != nil {
					return nil, err
				}
				return b.Screenshot(withContext(ctx), path)
			},
		},
	}
}
