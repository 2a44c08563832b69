package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func TestAllRegistersWithoutCollision(t *testing.T) {
	b := osboundary.New(time.Second)
	specs := All(b)
	require.NotEmpty(t, specs)

	r := tools.NewRegistry()
	for _, spec := range specs {
		require.NoError(t, r.Register(spec), "duplicate tool name %s", spec.Name)
	}
}

func TestEveryBuiltinDeclaresRiskLevel(t *testing.T) {
	b := osboundary.New(time.Second)
	for _, spec := range All(b) {
		require.NotEmpty(t, spec.RiskLevel, "tool %s has no risk level", spec.Name)
	}
}

func TestTimeNowHandler(t *testing.T) {
	b := osboundary.New(time.Second)
	var timeSpec *tools.ToolSpec
	for _, spec := range All(b) {
		if spec.Name == "time.now" {
			timeSpec = spec
		}
	}
	require.NotNil(t, timeSpec)

	result, err := timeSpec.Handler(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.IsType(t, "", result)
}

func TestFilesRoundTripHandler(t *testing.T) {
	b := osboundary.New(time.Second)
	specs := All(b)

	var create, read *tools.ToolSpec
	for _, spec := range specs {
		switch spec.Name {
		case "files.create":
			create = spec
		case "files.read":
			read = spec
		}
	}
	require.NotNil(t, create)
	require.NotNil(t, read)

	dir := t.TempDir()
	path := dir + "/note.txt"

	_, err := create.Handler(context.Background(), map[string]any{"path": path, "content": "hi"})
	require.NoError(t, err)

	result, err := read.Handler(context.Background(), map[string]any{"path": path})
	require.NoError(t, err)
	require.Equal(t, "hi", result)
}
