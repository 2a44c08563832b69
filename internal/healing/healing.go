// Package healing implements the Self-Healing Loop (Layer 3): retry with
// backoff on transient errors, one-shot dependency repair, and promotion of
// successful generated programs into the Capability store. Grounded on
// `internal/core/self_healing.go`'s HealingType dispatch (retry/escalate)
// and backoff formula, adapted from that file's Mangle-kernel-fact audit
// trail to AURA's `errs.Kind` taxonomy, and on
// `original_source/learning/self_improvement.py`/
// `original_source/core/hybrid_orchestrator.py`'s skill-promotion flow
// (`_is_reusable_function`, `capability_mgr.add_capability`).
package healing

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"aura/internal/capability"
	"aura/internal/errs"
	"aura/internal/executor"
	"aura/internal/logging"
)

// maxRetries is the fixed retry ceiling from §4.8: "retry with exponential
// backoff up to 2 attempts."
const maxRetries = 2

// installDependencyTool is the constrained installer tool the repair step
// invokes through the Executor — never a direct os/exec call from this
// package, preserving the single-execution-authority invariant.
const installDependencyTool = "system.install_dependency"

// Healer wraps tool execution with the recovery behaviors from §4.8. It is
// constructed once in cmd/aura/main.go and threaded by parameter.
type Healer struct {
	exec    *executor.Executor
	caps    *capability.Store
	backoff func(attempt int) time.Duration

	promoteGroup singleflight.Group
}

// New constructs a Healer bound to exec (for retries and the installer
// tool) and caps (for skill promotion).
func New(exec *executor.Executor, caps *capability.Store) *Healer {
	return &Healer{
		exec: exec,
		caps: caps,
		backoff: func(attempt int) time.Duration {
			return 100 * time.Millisecond * time.Duration(1<<attempt)
		},
	}
}

// SetBackoff overrides the default exponential backoff function; mainly
// for tests that want to avoid real sleeps.
func (h *Healer) SetBackoff(f func(attempt int) time.Duration) {
	h.backoff = f
}

// Heal is invoked by the Orchestrator when a Tool Executor call fails. It
// returns a (possibly recovered) Result whose RetriesUsed field records the
// number of retries it used.
// Non-retryable, non-repairable failures are returned unchanged.
func (h *Healer) Heal(ctx context.Context, toolName string, args map[string]any, policy executor.Policy, failed *executor.Result) *executor.Result {
	if failed == nil || failed.OK {
		return failed
	}

	kind := errs.KindOf(failed.Error)
	switch kind {
	case errs.MissingDependency:
		return h.repairDependency(ctx, toolName, args, policy, failed)
	case errs.Timeout, errs.Unavailable:
		return h.retry(ctx, toolName, args, policy, failed)
	default:
		logging.Healing("no recovery strategy for %s error on tool %s", kind, toolName)
		return failed
	}
}

// retry re-runs the tool up to maxRetries times with exponential backoff,
// stopping early on success, on context cancellation, or once the error
// stops being retryable.
func (h *Healer) retry(ctx context.Context, toolName string, args map[string]any, policy executor.Policy, failed *executor.Result) *executor.Result {
	result := failed
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
			result.RetriesUsed = attempt - 1
			return result
		case <-time.After(h.backoff(attempt - 1)):
		}

		logging.Healing("retrying tool %s, attempt %d/%d", toolName, attempt, maxRetries)
		result = h.exec.Execute(ctx, toolName, args, policy)
		result.RetriesUsed = attempt
		if result.OK {
			return result
		}
		if !errs.Retryable(errs.KindOf(result.Error)) {
			break
		}
	}
	return result
}

// repairDependency requests installation of the missing dependency through
// the constrained installer tool, then retries the original call exactly
// once, per §4.8's "request installation ... re-run once."
func (h *Healer) repairDependency(ctx context.Context, toolName string, args map[string]any, policy executor.Policy, failed *executor.Result) *executor.Result {
	dependency := errs.DependencyOf(failed.Error)
	if dependency == "" {
		logging.HealingWarn("dependency repair skipped for tool %s: error carried no dependency name", toolName)
		failed.RetriesUsed = 0
		return failed
	}
	logging.Healing("attempting dependency repair for tool %s: missing %q", toolName, dependency)

	installResult := h.exec.Execute(ctx, installDependencyTool, map[string]any{"dependency": dependency}, policy)
	if !installResult.OK {
		logging.HealingWarn("dependency repair failed for %q: %v", dependency, installResult.Error)
		failed.RetriesUsed = 0
		return failed
	}

	retried := h.exec.Execute(ctx, toolName, args, policy)
	retried.RetriesUsed = 1
	return retried
}

// IsReusable reports whether generated source is a single small function
// worth promoting, grounded on the original's _is_reusable_function
// ("def " in code and code.count("def ") <= 2), translated to Go's func
// declarations and widened slightly since a promotable AURA program is
// always exactly the fixed RunTool entrypoint plus at most one helper.
func IsReusable(source string) bool {
	count := strings.Count(source, "func ")
	return count >= 1 && count <= 2
}

// PromoteProgram synthesizes a Capability from a successful Code Sandbox
// run and persists it via the Capability store, per §4.6(c)/§4.8.3: a
// generalizable utterance template becomes
// {triggers, tool_name=run_program, args_template}. Concurrent Orchestrator
// goroutines promoting the same name (two requests for the same novel
// utterance racing through Layer 1.5 at once) collapse into a single
// Store.Promote call via singleflight, so the second caller observes the
// first's result instead of a spurious conflict.
func (h *Healer) PromoteProgram(name string, triggers []string, source string) error {
	_, err, _ := h.promoteGroup.Do(name, func() (any, error) {
		return nil, h.caps.Promote(capability.Capability{
			Name:     name,
			Triggers: triggers,
			ToolName: "run_program",
			ArgsTemplate: map[string]any{
				"source": source,
			},
		})
	})
	return err
}
