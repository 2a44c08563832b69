package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"aura/internal/errs"
	"aura/internal/executor"
	"aura/internal/llm"
	"aura/internal/logging"
	"aura/internal/tools"
)

// Planner implements plan_and_run(utterance, session) -> Response from
// §4.7, minus the Response wrapping (left to internal/orchestrator so this
// package stays free of the conversational-text-formatting concern).
// Constructed once in cmd/aura/main.go and threaded by parameter.
type Planner struct {
	client   llm.Client
	exec     *executor.Executor
	registry *tools.Registry
}

// New constructs a Planner.
func New(client llm.Client, exec *executor.Executor, registry *tools.Registry) *Planner {
	return &Planner{client: client, exec: exec, registry: registry}
}

// planSystemPrompt is built once per call from the live registry snapshot
// so a promoted or newly-registered tool is always visible to the LLM.
func (p *Planner) planSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are AURA's task planner. Given a user request, produce a JSON plan ")
	b.WriteString("using ONLY the tools listed below. Respond with JSON matching exactly:\n")
	b.WriteString(`{"steps":[{"tool_name":"...","args":{...},"on_failure":"abort"}]}`)
	b.WriteString("\n\nAvailable tools:\n")
	for _, spec := range p.registry.Iter() {
		b.WriteString(fmt.Sprintf("- %s: %s (args: %s)\n", spec.Name, spec.Description, describeArgs(spec)))
	}
	b.WriteString("\non_failure must be one of: abort, continue, retry. Steps execute in order. ")
	b.WriteString("Return JSON only, no prose.")
	return b.String()
}

func describeArgs(spec *tools.ToolSpec) string {
	if len(spec.ArgSchema) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(spec.ArgSchema))
	for name, prop := range spec.ArgSchema {
		req := ""
		if prop.Required {
			req = ", required"
		}
		parts = append(parts, fmt.Sprintf("%s:%s%s", name, prop.Type, req))
	}
	return strings.Join(parts, ", ")
}

// Plan asks the LLM for a Plan constrained to the registered tool set.
// Invalid plans (unknown tool, bad args) are rejected and re-asked exactly
// once, per §4.7's "Reject and re-ask once if the returned plan references
// unknown tools or violates arg schemas."
func (p *Planner) Plan(ctx context.Context, utterance string) (*Plan, error) {
	system := p.planSystemPrompt()

	raw, err := p.client.CompleteWithSystem(ctx, system, utterance)
	if err != nil {
		return nil, err
	}
	plan, parseErr := parsePlan(raw)
	if parseErr == nil {
		if badTool, validateErr := validateAgainstRegistry(*plan, p.registry); validateErr == nil {
			return plan, nil
		} else {
			logging.Planner("plan rejected (tool %s): %v, re-asking once", badTool, validateErr)
		}
	} else {
		logging.Planner("plan failed to parse: %v, re-asking once", parseErr)
	}

	retryPrompt := utterance + "\n\nYour previous plan was invalid. Use only the listed tools and arguments. Respond with JSON only."
	raw, err = p.client.CompleteWithSystem(ctx, system, retryPrompt)
	if err != nil {
		return nil, err
	}
	plan, parseErr = parsePlan(raw)
	if parseErr != nil {
		return nil, errs.Wrap(errs.LlmBadResponse, "planner: plan did not parse after re-ask", parseErr)
	}
	if _, validateErr := validateAgainstRegistry(*plan, p.registry); validateErr != nil {
		return nil, errs.Wrap(errs.LlmBadResponse, "planner: plan still invalid after re-ask", validateErr)
	}
	return plan, nil
}

func parsePlan(raw string) (*Plan, error) {
	raw = extractJSON(raw)
	var plan Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, err
	}
	if len(plan.Steps) == 0 {
		return nil, errs.New(errs.LlmBadResponse, "planner: plan has no steps")
	}
	for i := range plan.Steps {
		if plan.Steps[i].OnFailure == "" {
			plan.Steps[i].OnFailure = OnFailureAbort
		}
	}
	return &plan, nil
}

// extractJSON strips a leading/trailing markdown code fence, the common
// way an LLM wraps a "JSON only" response despite instructions not to.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
	}
	return strings.TrimSpace(trimmed)
}

// Run executes a Plan's steps sequentially via the Tool Executor. Default
// on_failure is abort; continue keeps going past a failed step; retry
// re-attempts the same step once before falling through to abort
// semantics. Partial progress is always reported in the returned
// RunResult regardless of terminal outcome.
func (p *Planner) Run(ctx context.Context, plan *Plan, policy executor.Policy) *RunResult {
	result := &RunResult{OK: true, PlannedSteps: len(plan.Steps)}

	for _, step := range plan.Steps {
		res := p.exec.Execute(ctx, step.ToolName, step.Args, policy)
		stepResult := StepResult{Step: step, OK: res.OK, Value: res.Value, Error: res.Error}

		if !res.OK && step.OnFailure == OnFailureRetry {
			logging.Planner("retrying failed step %s once", step.ToolName)
			res = p.exec.Execute(ctx, step.ToolName, step.Args, policy)
			stepResult = StepResult{Step: step, OK: res.OK, Value: res.Value, Error: res.Error, Retries: 1}
		}

		result.Steps = append(result.Steps, stepResult)

		if !stepResult.OK {
			result.OK = false
			if step.OnFailure != OnFailureContinue {
				result.Aborted = true
				logging.Planner("aborting plan at step %s: %v", step.ToolName, stepResult.Error)
				return result
			}
			logging.Planner("step %s failed but on_failure=continue: %v", step.ToolName, stepResult.Error)
		}
	}

	return result
}

// PlanAndRun runs the full Layer 2 contract: gate check (callers should
// have already confirmed NeedsPlan before invoking the LLM), plan, then
// run.
func (p *Planner) PlanAndRun(ctx context.Context, utterance string, policy executor.Policy) (*RunResult, error) {
	plan, err := p.Plan(ctx, utterance)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, plan, policy), nil
}
