package orchestrator

import (
	"context"
	"strings"
	"time"

	"aura/internal/errs"
	"aura/internal/executor"
	"aura/internal/logging"
	"aura/internal/planner"
	"aura/internal/router"
	"aura/internal/session"
)

// Process implements §4.1's process(utterance, session) -> Response, the
// single entry point the CLI (and the floating widget, out of scope here)
// calls for every utterance. It performs the branch sequence in order:
// conversation -> Layer 1 -> escalation-gated Layer 1.5/2 -> default
// Layer 1.5, never delegating the routing decision to a layer itself.
func (o *Orchestrator) Process(ctx context.Context, utterance string, sess *session.Session) Response {
	start := time.Now()
	id := sess.RecordUtterance(utterance)

	match := o.router.Classify(utterance, o.promotedRules())
	logging.Orchestrator("utterance_id=%s utterance=%q match=%s confidence=%.2f reason=%s", id, utterance, match.ToolName, match.Confidence, match.MatchReason)

	var resp Response
	switch {
	case match.IsConversation():
		resp = o.runConversation(ctx, utterance, sess)

	case match.Confidence >= router.High && o.registry.Lookup(match.ToolName) != nil:
		resp = o.runLayer1(ctx, match, sess)

	case match.Confidence >= router.Low:
		resp = o.routeEscalated(ctx, utterance, match, sess)

	default:
		resp = o.runCodeGen(ctx, utterance, match, sess)
	}

	sess.RecordLayer(resp.SourceLayer)
	if resp.OK {
		sess.RecordResult(resp.Text, nil)
	} else {
		sess.RecordResult("", errs.New(errs.Internal, resp.Text))
	}

	auditErr := ""
	if !resp.OK {
		auditErr = resp.Text
	}
	sess.RecordAudit(session.AuditEntry{
		ID:        id,
		Utterance: utterance,
		Layer:     string(resp.SourceLayer),
		Tool:      match.ToolName,
		OK:        resp.OK,
		ElapsedMs: time.Since(start).Milliseconds(),
		Error:     auditErr,
	})

	return resp
}

// routeEscalated implements the escalation policy's tie-break for
// confidences in [LOW, HIGH): multi-step markers or two prior same-utterance
// Layer 1.5 failures prefer Layer 2; otherwise Layer 1.5.
func (o *Orchestrator) routeEscalated(ctx context.Context, utterance string, match router.IntentMatch, sess *session.Session) Response {
	if planner.NeedsPlan(utterance) || o.codegenFailureCount(utterance) >= codegenFailureLimit {
		return o.runLayer2(ctx, utterance, match, sess)
	}
	return o.runCodeGen(ctx, utterance, match, sess)
}

// runLayer1 executes the Router's high-confidence tool match through the
// Tool Executor, escalating to Self-Healing on failure before surfacing a
// user-visible error. No LLM call is ever made on this path.
func (o *Orchestrator) runLayer1(ctx context.Context, match router.IntentMatch, sess *session.Session) Response {
	result := o.exec.Execute(ctx, match.ToolName, match.Args, executor.Policy{})
	result = o.heal(ctx, match.ToolName, match.Args, result, sess)

	return Response{
		Text:        describeOutcome(match.ToolName, match.Args, result),
		OK:          result.OK,
		UsedLLM:     false,
		SourceLayer: session.LayerLocal,
	}
}

// heal routes a failed Tool Invocation Result through the Self-Healing
// Loop and records the invocation in session stats, matching §4.1's
// "A layer failure is not fatal: the Orchestrator invokes Self-Healing."
func (o *Orchestrator) heal(ctx context.Context, toolName string, args map[string]any, result *executor.Result, sess *session.Session) *executor.Result {
	if result.OK {
		return result
	}
	sess.RecordHealing()
	return o.healer.Heal(ctx, toolName, args, executor.Policy{}, result)
}

// promotedRules flattens the Capability store's current snapshot into the
// Router-facing shape, always appended after builtins by Router.Classify.
func (o *Orchestrator) promotedRules() []router.PromotedRule {
	caps := o.caps.Snapshot()
	out := make([]router.PromotedRule, 0, len(caps))
	for _, c := range caps {
		out = append(out, router.PromotedRule{
			Name:     c.Name,
			Triggers: c.Triggers,
			ToolName: c.ToolName,
			Args:     c.ArgsTemplate,
		})
	}
	return out
}

func (o *Orchestrator) codegenFailureCount(utterance string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codegenFailures[strings.ToLower(strings.TrimSpace(utterance))]
}

func (o *Orchestrator) recordCodegenFailure(utterance string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codegenFailures[strings.ToLower(strings.TrimSpace(utterance))]++
}

func (o *Orchestrator) clearCodegenFailures(utterance string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.codegenFailures, strings.ToLower(strings.TrimSpace(utterance)))
}
