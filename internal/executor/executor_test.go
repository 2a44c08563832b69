package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"aura/internal/errs"
	"aura/internal/tools"
)

func newRegistryWithSpec(spec *tools.ToolSpec) *tools.Registry {
	r := tools.NewRegistry()
	r.MustRegister(spec)
	return r
}

func TestExecute_UnknownTool(t *testing.T) {
	e := New(tools.NewRegistry(), AllCapabilities())
	result := e.Execute(context.Background(), "nope.tool", nil, Policy{})
	require.False(t, result.OK)
	require.Equal(t, errs.UnknownTool, errs.KindOf(result.Error))
}

func TestExecute_BadArgs(t *testing.T) {
	spec := &tools.ToolSpec{
		Name:      "test.echo",
		ArgSchema: map[string]tools.ArgProperty{"msg": {Type: "string", Required: true}},
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return args["msg"], nil
		},
	}
	e := New(newRegistryWithSpec(spec), AllCapabilities())
	result := e.Execute(context.Background(), "test.echo", map[string]any{}, Policy{})
	require.False(t, result.OK)
	require.Equal(t, errs.BadArgs, errs.KindOf(result.Error))
}

func TestExecute_Success(t *testing.T) {
	spec := &tools.ToolSpec{
		Name:      "test.echo",
		ArgSchema: map[string]tools.ArgProperty{"msg": {Type: "string", Required: true}},
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return args["msg"], nil
		},
	}
	e := New(newRegistryWithSpec(spec), AllCapabilities())
	result := e.Execute(context.Background(), "test.echo", map[string]any{"msg": "hi"}, Policy{})
	require.True(t, result.OK)
	require.Equal(t, "hi", result.Value)
	require.GreaterOrEqual(t, result.ElapsedMs, int64(0))
}

func TestExecute_ConfirmationRequired(t *testing.T) {
	spec := &tools.ToolSpec{
		Name:      "test.danger",
		RiskLevel: tools.RiskConfirm,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "done", nil
		},
	}
	e := New(newRegistryWithSpec(spec), AllCapabilities())

	result := e.Execute(context.Background(), "test.danger", nil, Policy{})
	require.False(t, result.OK)
	require.Equal(t, errs.ConfirmationRequired, errs.KindOf(result.Error))

	confirmed := e.Execute(context.Background(), "test.danger", nil, Policy{Confirmed: true})
	require.True(t, confirmed.OK)
}

func TestExecute_UnsupportedCapability(t *testing.T) {
	spec := &tools.ToolSpec{
		Name:      "test.window",
		Requires:  []string{"os.windowing"},
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, nil
		},
	}
	e := New(newRegistryWithSpec(spec), HostCapabilities{})
	result := e.Execute(context.Background(), "test.window", nil, Policy{})
	require.False(t, result.OK)
	require.Equal(t, errs.Unsupported, errs.KindOf(result.Error))
}

func TestExecute_FallbackOnUnsupported(t *testing.T) {
	r := tools.NewRegistry()
	r.MustRegister(&tools.ToolSpec{
		Name:      "test.window",
		Requires:  []string{"os.windowing"},
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "windowed", nil
		},
	})
	r.MustRegister(&tools.ToolSpec{
		Name:      "test.headless",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "headless", nil
		},
	})
	e := New(r, HostCapabilities{})
	e.RegisterFallback("test.window", "test.headless")

	result := e.Execute(context.Background(), "test.window", nil, Policy{})
	require.True(t, result.OK)
	require.Equal(t, "headless", result.Value)
}

func TestExecute_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	spec := &tools.ToolSpec{
		Name:      "test.slow",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			select {
			case <-time.After(200 * time.Millisecond):
				return "too slow", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	e := New(newRegistryWithSpec(spec), AllCapabilities())
	e.SetTimeout("test.slow", 20*time.Millisecond)

	result := e.Execute(context.Background(), "test.slow", nil, Policy{})
	require.False(t, result.OK)
	require.Equal(t, errs.Timeout, errs.KindOf(result.Error))
}

func TestExecute_NeverRetries(t *testing.T) {
	calls := 0
	spec := &tools.ToolSpec{
		Name:      "test.fails",
		RiskLevel: tools.RiskLow,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			calls++
			return nil, errs.New(errs.Timeout, "boom")
		},
	}
	e := New(newRegistryWithSpec(spec), AllCapabilities())
	result := e.Execute(context.Background(), "test.fails", nil, Policy{})
	require.False(t, result.OK)
	require.Equal(t, 0, result.RetriesUsed)
	require.Equal(t, 1, calls)
}
