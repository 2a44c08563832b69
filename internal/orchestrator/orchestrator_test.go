package orchestrator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aura/internal/capability"
	"aura/internal/errs"
	"aura/internal/executor"
	"aura/internal/healing"
	"aura/internal/llm"
	"aura/internal/planner"
	"aura/internal/router"
	"aura/internal/sandbox"
	"aura/internal/session"
	"aura/internal/tools"
)

// fakeLLM is a deterministic stand-in for internal/llm.Client: it replays a
// queued response per call and records every prompt it was asked, so tests
// can assert on routing behavior without a network call.
type fakeLLM struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.CompleteWithSystem(ctx, "", prompt)
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.replies) {
		return "", errs.New(errs.LlmBadResponse, "fakeLLM: out of queued replies")
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func newTestOrchestrator(t *testing.T, llmClient *fakeLLM) (*Orchestrator, *tools.Registry, *executor.Executor) {
	t.Helper()

	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(&tools.ToolSpec{
		Name:      "audio.mute",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, nil
		},
	}))
	require.NoError(t, registry.Register(&tools.ToolSpec{
		Name:      "audio.fails",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errs.New(errs.Internal, "boom")
		},
	}))

	exec := executor.New(registry, executor.AllCapabilities())
	sb := sandbox.New()
	caps := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	healer := healing.New(exec, caps)
	healer.SetBackoff(func(attempt int) time.Duration { return time.Millisecond })

	var client llm.Client
	if llmClient != nil {
		client = llmClient
	}
	pl := planner.New(client, exec, registry)
	r := router.New()

	o := New(r, registry, exec, sb, pl, healer, caps, client)
	return o, registry, exec
}

func TestProcess_Layer1HighConfidenceNoLLM(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, nil)
	sess := session.New("", "")

	resp := o.Process(context.Background(), "mute the volume", sess)
	require.True(t, resp.OK)
	require.False(t, resp.UsedLLM)
	require.Equal(t, session.LayerLocal, resp.SourceLayer)
	require.Equal(t, 1, sess.Stats().LocalCommands)
}

func TestProcess_Layer1FailureInvokesHealing(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, nil)
	require.NoError(t, o.caps.Promote(capability.Capability{
		Name:     "force_failure",
		Triggers: []string{"trigger the failing tool"},
		ToolName: "audio.fails",
	}))
	sess := session.New("", "")

	resp := o.Process(context.Background(), "trigger the failing tool", sess)
	require.False(t, resp.OK)
	require.Equal(t, 1, sess.Stats().HealingInvocations)
}

func TestProcess_ConversationLayerUsesLLM(t *testing.T) {
	fake := &fakeLLM{replies: []string{"42, probably."}}
	o, _, _ := newTestOrchestrator(t, fake)
	sess := session.New("", "")

	resp := o.Process(context.Background(), "what is the meaning of life", sess)
	require.True(t, resp.OK)
	require.True(t, resp.UsedLLM)
	require.Equal(t, "42, probably.", resp.Text)
	require.Equal(t, session.LayerConversation, resp.SourceLayer)
}

func TestProcess_ConversationLayerNoCredentials(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, nil)
	sess := session.New("", "")

	resp := o.Process(context.Background(), "what is the meaning of life", sess)
	require.False(t, resp.OK)
	require.Equal(t, NoCredentialsText, resp.Text)
}

func TestCodegenFailureCounter_EscalatesToLayer2(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, nil)
	o.recordCodegenFailure("compute the thing")
	o.recordCodegenFailure("compute the thing")
	require.Equal(t, 2, o.codegenFailureCount("compute the thing"))
	resp := o.routeEscalated(context.Background(), "compute the thing", router.IntentMatch{}, session.New("", ""))
	require.Equal(t, session.LayerPlanner, resp.SourceLayer)

	o.clearCodegenFailures("compute the thing")
	require.Equal(t, 0, o.codegenFailureCount("compute the thing"))
}

func TestDescribeOutcome_FailureRendersTemplatedError(t *testing.T) {
	text := describeOutcome("audio.mute", nil, &executor.Result{OK: false, Error: errs.New(errs.Internal, "boom")})
	require.Contains(t, text, "Sorry,")
	require.Contains(t, text, "boom")
}

func TestDescribeOutcome_KnownToolUsesConfirmation(t *testing.T) {
	text := describeOutcome("power.lock", nil, &executor.Result{OK: true})
	require.Equal(t, "Locked.", text)
}

func TestDescribeOutcome_VolumeEchoesPercentArg(t *testing.T) {
	text := describeOutcome("audio.set_volume", map[string]any{"level": 50}, &executor.Result{OK: true})
	require.Equal(t, "Volume set to 50%.", text)
}

func TestDescribeOutcome_BrightnessEchoesFloat64PercentArg(t *testing.T) {
	// A promoted capability's ArgsTemplate round-trips through
	// capabilities.json's JSON encoding, so its numbers decode as float64
	// rather than int.
	text := describeOutcome("display.set_brightness", map[string]any{"level": float64(75)}, &executor.Result{OK: true})
	require.Equal(t, "Brightness set to 75%.", text)
}

func TestDescribeOutcome_VolumeWithoutArgFallsBackToDone(t *testing.T) {
	text := describeOutcome("audio.set_volume", nil, &executor.Result{OK: true})
	require.Equal(t, "Done.", text)
}

func TestRunLayer2_AbortedPlanHealedMidwayStillReportsFailure(t *testing.T) {
	o, registry, _ := newTestOrchestrator(t, nil)
	attempts := 0
	require.NoError(t, registry.Register(&tools.ToolSpec{
		Name:      "audio.flaky",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			attempts++
			if attempts == 1 {
				return nil, errs.New(errs.Timeout, "first attempt times out")
			}
			return "recovered", nil
		},
	}))

	fake := &fakeLLM{replies: []string{
		`{"steps":[` +
			`{"tool_name":"audio.mute","args":{},"on_failure":"abort"},` +
			`{"tool_name":"audio.flaky","args":{},"on_failure":"abort"},` +
			`{"tool_name":"audio.mute","args":{},"on_failure":"abort"}` +
			`]}`,
	}}
	o.llmClient = fake
	o.planner = planner.New(fake, o.exec, registry)
	sess := session.New("", "")

	resp := o.runLayer2(context.Background(), "mute then do the flaky thing then mute again", router.IntentMatch{}, sess)

	// Run() aborts after step 2's first (unrecovered) failure, so step 3
	// never executes even though step 2 heals on retry: the plan must not
	// be reported as a success just because every *executed* step passed.
	require.False(t, resp.OK)
	require.Equal(t, 1, sess.Stats().HealingInvocations)
}

func TestErrorText_NeverIncludesGoErrorWrapping(t *testing.T) {
	wrapped := errs.Wrap(errs.LlmNetwork, "planner: request failed", errs.New(errs.Timeout, "dial timeout"))
	text := errorText("planner", wrapped)
	require.Contains(t, text, "the plan failed")
	require.NotContains(t, text, "\n")
	require.NotContains(t, text, "dial timeout")
}
