package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func powerTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "power.lock",
			Description: "Lock the screen",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.power"},
			HandlerID:   "power.lock",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return nil, b.Lock(withContext(ctx))
			},
		},
		{
			Name:        "power.sleep",
			Description: "Put the system to sleep",
			RiskLevel:   tools.RiskConfirm,
			Requires:    []string{"os.power"},
			HandlerID:   "power.sleep",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return nil, b.Sleep(withContext(ctx))
			},
		},
		{
			Name:        "power.shutdown",
			Description: "Shut the system down",
			RiskLevel:   tools.RiskConfirm,
			Requires:    []string{"os.power"},
			HandlerID:   "power.shutdown",
			Handler: func(ctx context.Context, _ map[string]any) (any, error) {
				return nil, b.Shutdown(withContext(ctx))
			},
		},
	}
}
