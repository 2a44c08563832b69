// Package executor implements the Tool Executor: the single process-wide
// authority that actually invokes tool handlers. No other package calls a
// ToolSpec's Handler directly, mirroring the sole-execution-authority rule
// the teacher enforces with CompositeExecutor/RetryExecutor in
// internal/tactile/factory.go, adapted here from a multi-backend command
// router into AURA's single-backend, risk-and-capability-gated dispatcher.
package executor

import (
	"context"
	"time"

	"aura/internal/errs"
	"aura/internal/logging"
	"aura/internal/tools"
)

// HostCapabilities is the fixed set of capability tags the running host
// actually supports, checked against a ToolSpec's Requires list before a
// handler ever runs. Built once at process start in cmd/aura/main.go, which
// passes AllCapabilities(); no platform probe narrows it, so every tag is
// reported as supported on every host. Grounded in the teacher's
// ExecutorCapabilities pattern
// (internal/tactile/factory.go's CompositeExecutor.Capabilities) reduced
// from "what this executor backend supports" to "what this OS supports."
type HostCapabilities map[string]bool

// Supports reports whether every tag in requires is present in the host's
// capability set. An empty requires list is always supported.
func (h HostCapabilities) Supports(requires []string) bool {
	for _, tag := range requires {
		if !h[tag] {
			return false
		}
	}
	return true
}

// AllCapabilities is the permissive default: every tag a built-in tool
// could plausibly require. cmd/aura uses it on every platform, including a
// headless Linux box with no display server; only a caller that builds its
// own narrower HostCapabilities (as the tests do) gets Unsupported or a
// fallback from the capability check.
func AllCapabilities() HostCapabilities {
	return HostCapabilities{
		"os.audio":      true,
		"os.display":    true,
		"os.power":      true,
		"os.window":     true,
		"os.input":      true,
		"os.clipboard":  true,
		"os.filesystem": true,
		"os.screenshot": true,
		"os.time":       true,
	}
}

// Policy carries the per-call execution decisions the Orchestrator/Planner
// have already made: whether a confirm-risk tool has been confirmed, and an
// optional override of the tool's default timeout.
type Policy struct {
	Confirmed       bool
	TimeoutOverride time.Duration
}

// Result is the Tool Invocation Result from the data model: an opaque
// value, an ErrorKind on failure, and the bookkeeping fields Self-Healing
// and the Orchestrator consume. The Executor itself never retries, so
// RetriesUsed always leaves here as 0; a retrying wrapper (internal/healing)
// sets the field on the Result it ultimately returns upward.
type Result struct {
	OK          bool
	Value       any
	Error       error
	ElapsedMs   int64
	RetriesUsed int
}

// defaultTimeout is the Executor's per-call timeout absent a tool-specific
// or policy override, per §4.4's "default 30s, configurable per tool."
const defaultTimeout = 30 * time.Second

// Executor is the sole execution authority. It is constructed once in
// cmd/aura/main.go and threaded by parameter, never a package singleton,
// per §4.A.
type Executor struct {
	registry   *tools.Registry
	host       HostCapabilities
	fallbacks  map[string]string // tool name -> cross-platform fallback tool name
	toolTimeout map[string]time.Duration
}

// New constructs an Executor bound to registry and host.
func New(registry *tools.Registry, host HostCapabilities) *Executor {
	return &Executor{
		registry:    registry,
		host:        host,
		fallbacks:   make(map[string]string),
		toolTimeout: make(map[string]time.Duration),
	}
}

// RegisterFallback declares that toolName, when unsupported on this host,
// should be transparently redirected to fallbackName. Both must already be
// (or eventually be) present in the Registry; the redirect is resolved at
// call time, not at registration time, so ordering does not matter.
func (e *Executor) RegisterFallback(toolName, fallbackName string) {
	e.fallbacks[toolName] = fallbackName
}

// SetTimeout overrides the default per-call timeout for one tool.
func (e *Executor) SetTimeout(toolName string, d time.Duration) {
	e.toolTimeout[toolName] = d
}

// Execute is the Tool Executor's one entry point. It performs every
// pre-execution check from §4.4 in order, then runs the handler under a
// per-call timeout, and finally records elapsed time. It never retries:
// retries are the Self-Healing Loop's responsibility (internal/healing).
func (e *Executor) Execute(ctx context.Context, toolName string, args map[string]any, policy Policy) *Result {
	start := time.Now()

	spec := e.registry.Lookup(toolName)
	if spec == nil {
		return failf(start, errs.New(errs.UnknownTool, "executor: unknown tool "+toolName))
	}

	coerced, err := tools.CoerceArgs(spec, args)
	if err != nil {
		return failf(start, err)
	}

	if !e.host.Supports(spec.Requires) {
		if fallbackName, ok := e.fallbacks[toolName]; ok {
			logging.Executor("tool %s unsupported on host, falling back to %s", toolName, fallbackName)
			return e.Execute(ctx, fallbackName, args, policy)
		}
		return failf(start, errs.New(errs.Unsupported, "executor: "+toolName+" requires unavailable host capability"))
	}

	if spec.RiskLevel == tools.RiskConfirm && !policy.Confirmed {
		return failf(start, errs.New(errs.ConfirmationRequired, "executor: "+toolName+" requires confirmation"))
	}

	timeout := e.timeoutFor(toolName, policy)
	value, err := e.runWithTimeout(ctx, spec.Handler, coerced, timeout)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		logging.ExecutorWarn("tool %s failed after %dms: %v", toolName, elapsed, err)
		return &Result{OK: false, Error: err, ElapsedMs: elapsed}
	}

	logging.Executor("tool %s succeeded in %dms", toolName, elapsed)
	return &Result{OK: true, Value: value, ElapsedMs: elapsed}
}

func (e *Executor) timeoutFor(toolName string, policy Policy) time.Duration {
	if policy.TimeoutOverride > 0 {
		return policy.TimeoutOverride
	}
	if d, ok := e.toolTimeout[toolName]; ok {
		return d
	}
	return defaultTimeout
}

// runWithTimeout invokes handler on a worker goroutine and races it against
// the timeout and the caller's context, the same select-on-result-vs-ctx.Done
// shape the teacher uses in internal/autopoiesis/yaegi_executor.go's
// ExecuteToolCode.
func (e *Executor) runWithTimeout(ctx context.Context, handler tools.HandlerFunc, args map[string]any, timeout time.Duration) (any, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := handler(callCtx, args)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-callCtx.Done():
		return nil, errs.New(errs.Timeout, "executor: handler exceeded timeout")
	}
}

func failf(start time.Time, err error) *Result {
	return &Result{OK: false, Error: err, ElapsedMs: time.Since(start).Milliseconds()}
}
