package healing

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aura/internal/capability"
	"aura/internal/errs"
	"aura/internal/executor"
	"aura/internal/tools"
)

func noBackoff(h *Healer) {
	h.SetBackoff(func(attempt int) time.Duration { return time.Millisecond })
}

func TestHeal_RetriesTransientFailureUntilSuccess(t *testing.T) {
	calls := 0
	spec := &tools.ToolSpec{
		Name:      "test.flaky",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			calls++
			if calls < 2 {
				return nil, errs.New(errs.Timeout, "not yet")
			}
			return "ok", nil
		},
	}
	r := tools.NewRegistry()
	r.MustRegister(spec)
	ex := executor.New(r, executor.AllCapabilities())
	store := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	h := New(ex, store)
	noBackoff(h)

	first := ex.Execute(context.Background(), "test.flaky", nil, executor.Policy{})
	require.False(t, first.OK)

	healed := h.Heal(context.Background(), "test.flaky", nil, executor.Policy{}, first)
	require.True(t, healed.OK)
	require.Equal(t, "ok", healed.Value)
	require.Equal(t, 1, healed.RetriesUsed)
}

func TestHeal_GivesUpAfterMaxRetries(t *testing.T) {
	spec := &tools.ToolSpec{
		Name:      "test.alwaysfails",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errs.New(errs.Unavailable, "down")
		},
	}
	r := tools.NewRegistry()
	r.MustRegister(spec)
	ex := executor.New(r, executor.AllCapabilities())
	store := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	h := New(ex, store)
	noBackoff(h)

	first := ex.Execute(context.Background(), "test.alwaysfails", nil, executor.Policy{})
	healed := h.Heal(context.Background(), "test.alwaysfails", nil, executor.Policy{}, first)
	require.False(t, healed.OK)
	require.Equal(t, 2, healed.RetriesUsed)
}

func TestHeal_NonRetryableErrorPassesThrough(t *testing.T) {
	ex := executor.New(tools.NewRegistry(), executor.AllCapabilities())
	store := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	h := New(ex, store)

	failed := &executor.Result{OK: false, Error: errs.New(errs.BadArgs, "nope")}
	healed := h.Heal(context.Background(), "test.whatever", nil, executor.Policy{}, failed)
	require.Same(t, failed, healed)
}

func TestHeal_DependencyRepairSucceeds(t *testing.T) {
	r := tools.NewRegistry()
	r.MustRegister(&tools.ToolSpec{
		Name:      "system.install_dependency",
		RiskLevel: tools.RiskMedium,
		ArgSchema: map[string]tools.ArgProperty{"dependency": {Type: "string", Required: true}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "installed", nil
		},
	})
	r.MustRegister(&tools.ToolSpec{
		Name:      "test.needsdep",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "ran", nil
		},
	})
	ex := executor.New(r, executor.AllCapabilities())
	store := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	h := New(ex, store)

	// Shaped the way internal/osboundary/run.go actually builds a
	// MissingDependency error: Message names the binary, Cause wraps the
	// os/exec not-found error, and Dependency carries the bare name the
	// repair step reads.
	notFound := errors.New(`exec: "amixer": executable file not found in $PATH`)
	failed := &executor.Result{OK: false, Error: errs.WrapMissingDependency("amixer", "amixer is not installed", notFound)}
	healed := h.Heal(context.Background(), "test.needsdep", nil, executor.Policy{}, failed)
	require.True(t, healed.OK)
	require.Equal(t, "ran", healed.Value)
	require.Equal(t, 1, healed.RetriesUsed)
}

func TestHeal_DependencyRepairSkippedWithoutDependencyName(t *testing.T) {
	r := tools.NewRegistry()
	installCalled := false
	r.MustRegister(&tools.ToolSpec{
		Name:      "system.install_dependency",
		RiskLevel: tools.RiskMedium,
		ArgSchema: map[string]tools.ArgProperty{"dependency": {Type: "string", Required: true}},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			installCalled = true
			return "installed", nil
		},
	})
	ex := executor.New(r, executor.AllCapabilities())
	store := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	h := New(ex, store)

	failed := &executor.Result{OK: false, Error: errs.New(errs.MissingDependency, "no structured dependency name")}
	healed := h.Heal(context.Background(), "test.needsdep", nil, executor.Policy{}, failed)
	require.False(t, healed.OK)
	require.False(t, installCalled)
}

func TestIsReusable(t *testing.T) {
	require.True(t, IsReusable("func RunTool(input string) (string, error) { return input, nil }"))
	require.False(t, IsReusable("package main"))
	require.False(t, IsReusable("func a(){}\nfunc b(){}\nfunc c(){}"))
}

func TestPromoteProgram(t *testing.T) {
	store := capability.New(filepath.Join(t.TempDir(), "capabilities.json"), nil)
	ex := executor.New(tools.NewRegistry(), executor.AllCapabilities())
	h := New(ex, store)

	err := h.PromoteProgram("good_morning_routine", []string{"good morning"}, "func RunTool(input string) (string, error) { return \"morning\", nil }")
	require.NoError(t, err)
	require.Len(t, store.Snapshot(), 1)
}
