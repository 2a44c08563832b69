package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func displayTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "display.set_brightness",
			Description: "Set the display brightness as a percentage",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.display"},
			HandlerID:   "display.set_brightness",
			ArgSchema: map[string]tools.ArgProperty{
				"level": {Type: "int", Required: true, Min: 0, Max: 100},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				level, err := argInt(args, "level")
				if err != nil {
					return nil, err
				}
				return nil, b.SetBrightness(withContext(ctx), level)
			},
		},
		{
			Name:        "display.get_brightness",
			Description: "Read the current display brightness",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.display"},
			HandlerID:   "display.get_brightness",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return b.GetBrightness(withContext(ctx))
			},
		},
	}
}
