// Package system wires the two tools that exist only to give the rest of
// the core a single execution authority to call through, instead of a
// direct package reference: "run_program" (the Code Sandbox's entrypoint,
// reached by a promoted Capability the same way any other tool is) and
// "system.install_dependency" (the Self-Healing Loop's constrained
// installer, reached through the OS Boundary). Both follow the same
// one-constructor-per-tool shape as internal/tools/builtin.
package system

import (
	"context"

	"aura/internal/errs"
	"aura/internal/osboundary"
	"aura/internal/sandbox"
	"aura/internal/tools"
)

// All returns the system tool set, bound to the Boundary and Sandbox.
func All(b *osboundary.Boundary, sb *sandbox.Sandbox) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		runProgramTool(sb),
		installDependencyTool(b),
	}
}

// runProgramTool exposes the Code Sandbox through the Registry under the
// fixed name "run_program" a promoted Capability's args_template always
// names (§4.8.3/§4.D), so a promoted capability is executed through the
// same Tool Executor path as any built-in tool rather than a sandbox-aware
// special case in the Orchestrator.
func runProgramTool(sb *sandbox.Sandbox) *tools.ToolSpec {
	return &tools.ToolSpec{
		Name:        "run_program",
		Description: "Run a single-shot synthesized Go program in the Code Sandbox",
		RiskLevel:   tools.RiskMedium,
		HandlerID:   "run_program",
		ArgSchema: map[string]tools.ArgProperty{
			"source": {Type: "string", Required: true},
			"input":  {Type: "string", Default: ""},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			source, ok := args["source"].(string)
			if !ok || source == "" {
				return nil, errs.New(errs.BadArgs, "run_program: source must be a non-empty string")
			}
			input, _ := args["input"].(string)

			result := sb.RunProgram(ctx, source, input, sandbox.DefaultLimits())
			if !result.OK {
				return nil, result.Error
			}
			return result.Value, nil
		},
	}
}

// installDependencyTool is the "constrained installer tool" §4.8.2 names:
// the only handler that reaches osboundary.Boundary.InstallDependency, and
// therefore the only way the Self-Healing Loop's dependency repair step can
// cause a platform API call.
func installDependencyTool(b *osboundary.Boundary) *tools.ToolSpec {
	return &tools.ToolSpec{
		Name:        "system.install_dependency",
		Description: "Install a missing external binary the OS Boundary depends on",
		RiskLevel:   tools.RiskMedium,
		HandlerID:   "system.install_dependency",
		ArgSchema: map[string]tools.ArgProperty{
			"dependency": {Type: "string", Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			dep, ok := args["dependency"].(string)
			if !ok || dep == "" {
				return nil, errs.New(errs.BadArgs, "system.install_dependency: dependency must be a non-empty string")
			}
			if err := b.InstallDependency(ctx, dep); err != nil {
				return nil, err
			}
			return "installed", nil
		},
	}
}
