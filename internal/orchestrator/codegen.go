package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"aura/internal/errs"
	"aura/internal/executor"
	"aura/internal/healing"
	"aura/internal/logging"
	"aura/internal/router"
	"aura/internal/session"
)

// codegenSystemPrompt lists the sandbox surface (allowed imports, fixed
// entrypoint convention) the way §4.6(a) requires: "a compact system
// prompt listing available tools and the sandbox surface." The tool list
// itself is intentionally omitted here — free-form code generation does
// not need the registry, only the Planner (Layer 2) does.
func codegenSystemPrompt() string {
	return "You are AURA's code-gen fallback. Given a user request, write a single Go source snippet " +
		"that defines exactly one function:\n\n" +
		"func RunTool(input string) (string, error)\n\n" +
		"It may import only: fmt, strings, strconv, math, sort, time, regexp, encoding/json, bytes. " +
		"Compute the answer and return it as a string; do not print anything. " +
		"Respond with the Go source only, no prose, no markdown fence."
}

// runCodeGen implements the Code-Gen Fallback (Layer 1.5) per §4.6: request
// a program, run it through the Tool Executor's "run_program" tool (which
// dispatches to the Code Sandbox), repair once on a typed failure, and
// propose promotion on a reusable success.
func (o *Orchestrator) runCodeGen(ctx context.Context, utterance string, match router.IntentMatch, sess *session.Session) Response {
	if o.llmClient == nil {
		logging.Orchestrator("codegen layer: no LLM client configured")
		return Response{Text: NoCredentialsText, OK: false, UsedLLM: true, SourceLayer: session.LayerCodeGen}
	}

	system := codegenSystemPrompt()
	source, err := o.llmClient.CompleteWithSystem(ctx, system, utterance)
	if err != nil {
		return o.codeGenFailure(utterance, errorText("code-gen", err))
	}
	source = extractSource(source)

	result := o.runProgram(ctx, source, utterance, sess)
	if !result.OK {
		logging.Orchestrator("codegen first attempt failed: %v, repairing once", result.Error)
		repairPrompt := fmt.Sprintf("%s\n\nYour previous program failed with: %v\nFix it and return the corrected Go source only.", utterance, result.Error)
		source, err = o.llmClient.CompleteWithSystem(ctx, system, repairPrompt)
		if err != nil {
			return o.codeGenFailure(utterance, errorText("code-gen", err))
		}
		source = extractSource(source)
		result = o.runProgram(ctx, source, utterance, sess)
	}

	if !result.OK {
		return o.codeGenFailure(utterance, errorText("code-gen", result.Error))
	}

	o.clearCodegenFailures(utterance)
	if o.healer != nil && result.Value != "" {
		if promoErr := o.promoteIfReusable(source, utterance); promoErr == nil {
			sess.RecordPromotion()
		}
	}

	value, _ := result.Value.(string)
	return Response{Text: value, OK: true, UsedLLM: true, SourceLayer: session.LayerCodeGen}
}

func (o *Orchestrator) codeGenFailure(utterance, text string) Response {
	o.recordCodegenFailure(utterance)
	return Response{Text: text, OK: false, UsedLLM: true, SourceLayer: session.LayerCodeGen}
}

// runProgram executes a synthesized program through the Tool Executor's
// "run_program" tool rather than calling the Sandbox directly, so the
// Self-Healing Loop's retry/backoff applies uniformly to Layer 1.5 the same
// way it does to Layer 1 and Layer 2, without this package needing its own
// retry logic duplicated against internal/sandbox.
func (o *Orchestrator) runProgram(ctx context.Context, source, input string, sess *session.Session) *executor.Result {
	result := o.exec.Execute(ctx, "run_program", map[string]any{"source": source, "input": input}, executor.Policy{})
	return o.heal(ctx, "run_program", map[string]any{"source": source, "input": input}, result, sess)
}

// promoteIfReusable proposes source for promotion when it is a small,
// generalizable function, per §4.6(c)/§4.8.3. A generalizable trigger is
// the utterance itself, lowercased: an exact-match trigger is the most
// conservative promotion shape and never shadows a fuzzy/keyword builtin.
func (o *Orchestrator) promoteIfReusable(source, utterance string) error {
	if o.healer == nil {
		return errs.New(errs.Internal, "no healer configured")
	}
	if !healing.IsReusable(source) {
		return errs.New(errs.BadArgs, "program not reusable")
	}
	name := capabilityNameFor(utterance)
	return o.healer.PromoteProgram(name, []string{strings.ToLower(strings.TrimSpace(utterance))}, source)
}

// extractSource strips a markdown code fence an LLM adds despite being
// told not to, the same tolerant unwrap internal/planner.extractJSON uses
// for plan responses.
func extractSource(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```go")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
	}
	return strings.TrimSpace(trimmed)
}

// capabilityNameFor derives a stable Capability name from an utterance so
// re-promoting the same utterance is recognized as identical by
// capability.Store.Promote's idempotence check.
func capabilityNameFor(utterance string) string {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	var b strings.Builder
	lastUnderscore := true
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "generated_skill"
	}
	if len(name) > 48 {
		name = name[:48]
	}
	return name
}
