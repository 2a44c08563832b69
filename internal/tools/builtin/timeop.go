package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func timeTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "time.now",
			Description: "Return the current host wall-clock time",
			RiskLevel:   tools.RiskLow,
			HandlerID:   "time.now",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				t, err := b.Now(withContext(ctx))
				if err != nil {
					return nil, err
				}
				return t.Format("2006-01-02T15:04:05Z07:00"), nil
			},
		},
	}
}
