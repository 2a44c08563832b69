package orchestrator

import (
	"context"
	"strconv"

	"aura/internal/executor"
	"aura/internal/planner"
	"aura/internal/router"
	"aura/internal/session"
)

// runLayer2 implements the Agentic Planner/Executor (Layer 2) per §4.7:
// decompose utterance into a Plan and run it sequentially through the Tool
// Executor, reporting partial progress regardless of the terminal outcome.
// match is accepted but unused beyond logging context; the Planner always
// re-derives its own tool set from the live registry rather than trusting
// the Router's single-tool guess.
func (o *Orchestrator) runLayer2(ctx context.Context, utterance string, match router.IntentMatch, sess *session.Session) Response {
	if o.llmClient == nil {
		return Response{Text: NoCredentialsText, OK: false, UsedLLM: true, SourceLayer: session.LayerPlanner}
	}

	run, err := o.planner.PlanAndRun(ctx, utterance, executor.Policy{})
	if err != nil {
		return Response{Text: errorText("planner", err), OK: false, UsedLLM: true, SourceLayer: session.LayerPlanner}
	}

	allOK := true
	for i := range run.Steps {
		step := &run.Steps[i]
		if step.OK {
			continue
		}
		sess.RecordHealing()
		healed := o.healer.Heal(ctx, step.Step.ToolName, step.Step.Args, executor.Policy{}, &executor.Result{OK: false, Error: step.Error})
		if healed.OK {
			step.OK = true
			step.Value = healed.Value
			step.Error = nil
		} else {
			allOK = false
		}
	}
	// A healed retry can flip every *executed* step to OK, but an abort
	// still means steps after the abort point never ran: only count the
	// run as OK when every planned step actually executed and succeeded.
	run.OK = allOK && len(run.Steps) == run.PlannedSteps

	return Response{
		Text:        describePlanOutcome(run),
		OK:          run.OK,
		UsedLLM:     true,
		SourceLayer: session.LayerPlanner,
	}
}

// describePlanOutcome summarizes a multi-step plan's outcome: a completed
// steps count, which one aborted the run if any, and the last successful
// step's value when the whole plan succeeded. Always reports partial
// progress, per §4.7's "Partial progress is reported regardless of terminal
// outcome."
func describePlanOutcome(run *planner.RunResult) string {
	if run.OK {
		if n := len(run.Steps); n > 0 {
			last := run.Steps[n-1]
			if text, ok := last.Value.(string); ok && text != "" {
				return text
			}
		}
		return "Done."
	}

	done := 0
	for _, s := range run.Steps {
		if s.OK {
			done++
		}
	}
	total := run.PlannedSteps
	// The step that aborted the run is always the last one executed.
	if n := len(run.Steps); run.Aborted && n > 0 && !run.Steps[n-1].OK {
		failed := run.Steps[n-1]
		return errorText("planner", failed.Error) + " (" + strconv.Itoa(done) + "/" + strconv.Itoa(total) + " steps completed)"
	}
	if run.Aborted {
		return "Plan aborted after a failed step; the remaining steps did not run (" + strconv.Itoa(done) + "/" + strconv.Itoa(total) + " steps completed)."
	}
	return "Plan finished with some steps failing (" + strconv.Itoa(done) + "/" + strconv.Itoa(total) + " completed)."
}
