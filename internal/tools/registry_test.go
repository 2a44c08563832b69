package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"aura/internal/errs"
)

func echoSpec() *ToolSpec {
	return &ToolSpec{
		Name:      "echo",
		RiskLevel: RiskLow,
		ArgSchema: map[string]ArgProperty{
			"text": {Type: "string", Required: true},
		},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			return args["text"], nil
		},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoSpec()))
	require.NotNil(t, r.Lookup("echo"))
	require.Nil(t, r.Lookup("missing"))
	require.Equal(t, 1, r.Count())
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoSpec()))
	err := r.Register(echoSpec())
	require.Error(t, err)
}

func TestRegisterRejectsNoNameOrHandler(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.Register(&ToolSpec{Handler: func(context.Context, map[string]any) (any, error) { return nil, nil }}))
	require.Error(t, r.Register(&ToolSpec{Name: "no-handler"}))
}

func TestIterIsSortedByName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&ToolSpec{Name: "zeta", Handler: noop}))
	require.NoError(t, r.Register(&ToolSpec{Name: "alpha", Handler: noop}))

	specs := r.Iter()
	require.Len(t, specs, 2)
	require.Equal(t, "alpha", specs[0].Name)
	require.Equal(t, "zeta", specs[1].Name)
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoSpec()))

	snap := r.Snapshot()
	snap["echo"] = ToolSpec{Name: "mutated"}

	require.Equal(t, "echo", r.Lookup("echo").Name)
}

func TestCoerceArgsFillsDefaultsAndValidates(t *testing.T) {
	spec := &ToolSpec{
		Name: "set_volume",
		ArgSchema: map[string]ArgProperty{
			"level": {Type: "int", Required: true, Min: 0, Max: 100},
		},
	}

	args, err := CoerceArgs(spec, map[string]any{"level": 42})
	require.NoError(t, err)
	require.Equal(t, 42, args["level"])

	_, err = CoerceArgs(spec, map[string]any{"level": 150})
	require.Equal(t, errs.BadArgs, errs.KindOf(err))

	_, err = CoerceArgs(spec, map[string]any{})
	require.Equal(t, errs.BadArgs, errs.KindOf(err))
}

func TestCoerceArgsEnumConstraint(t *testing.T) {
	spec := &ToolSpec{
		Name: "provider",
		ArgSchema: map[string]ArgProperty{
			"name": {Type: "string", Required: true, Enum: []any{"gemini", "openai"}},
		},
	}

	_, err := CoerceArgs(spec, map[string]any{"name": "openai"})
	require.NoError(t, err)

	_, err = CoerceArgs(spec, map[string]any{"name": "not-a-provider"})
	require.Equal(t, errs.BadArgs, errs.KindOf(err))
}

func noop(context.Context, map[string]any) (any, error) { return nil, nil }
