// Package planner implements the Planner / Agentic Layer (Layer 2):
// decomposing an utterance into an ordered Plan of tool calls when a single
// Layer 1 match does not suffice, then running that Plan sequentially
// through the Tool Executor. Grounded on
// original_source/auraaiv2/agents/decomposition_gate.py's single/multi
// classification contract (adapted from an LLM-backed classifier to the
// heuristic gate recorded in DESIGN.md's open-question decision) and
// original_source/core/hybrid_orchestrator.py's sequential V2-plan
// execution flow.
package planner

import "aura/internal/tools"

// OnFailure names what a PlanStep's failure should do to the rest of the
// Plan.
type OnFailure string

const (
	OnFailureAbort    OnFailure = "abort"
	OnFailureContinue OnFailure = "continue"
	OnFailureRetry    OnFailure = "retry"
)

// PlanStep is one ordered tool call from the data model's Plan type.
type PlanStep struct {
	ToolName  string         `json:"tool_name"`
	Args      map[string]any `json:"args"`
	OnFailure OnFailure      `json:"on_failure"`
}

// Plan is a finite, acyclic, ordered list of PlanSteps.
type Plan struct {
	Steps []PlanStep `json:"steps"`
}

// StepResult records the outcome of running one PlanStep.
type StepResult struct {
	Step      PlanStep
	OK        bool
	Value     any
	Error     error
	Retries   int
}

// RunResult is the outcome of running a whole Plan: partial progress is
// always reported, per §4.7's "Partial progress is reported regardless of
// terminal outcome."
type RunResult struct {
	Steps        []StepResult
	PlannedSteps int // len(Plan.Steps); may exceed len(Steps) when Aborted
	OK           bool
	Aborted      bool
}

// validateAgainstRegistry checks that every step names a registered tool
// and that its args satisfy that tool's schema, without running anything.
// Returns the name of the first offending tool, or "" if the plan is
// valid.
func validateAgainstRegistry(plan Plan, registry *tools.Registry) (badTool string, err error) {
	for _, step := range plan.Steps {
		spec := registry.Lookup(step.ToolName)
		if spec == nil {
			return step.ToolName, errUnknownTool(step.ToolName)
		}
		if _, coerceErr := tools.CoerceArgs(spec, step.Args); coerceErr != nil {
			return step.ToolName, coerceErr
		}
	}
	return "", nil
}
