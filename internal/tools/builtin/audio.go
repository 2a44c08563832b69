package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func audioTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "audio.set_volume",
			Description: "Set the system output volume as a percentage",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.audio"},
			HandlerID:   "audio.set_volume",
			ArgSchema: map[string]tools.ArgProperty{
				"level": {Type: "int", Required: true, Min: 0, Max: 100},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				level, err := argInt(args, "level")
				if err != nil {
					return nil, err
				}
				return nil, b.SetVolume(withContext(ctx), level)
			},
		},
		{
			Name:        "audio.mute",
			Description: "Mute the system output",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.audio"},
			HandlerID:   "audio.mute",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return nil, b.Mute(withContext(ctx))
			},
		},
		{
			Name:        "audio.unmute",
			Description: "Unmute the system output",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.audio"},
			HandlerID:   "audio.unmute",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return nil, b.Unmute(withContext(ctx))
			},
		},
		{
			Name:        "audio.get_volume",
			Description: "Read the current system output volume",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.audio"},
			HandlerID:   "audio.get_volume",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return b.GetVolume(withContext(ctx))
			},
		},
	}
}
