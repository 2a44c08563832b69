package system

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aura/internal/osboundary"
	"aura/internal/sandbox"
	"aura/internal/tools"
)

func TestAllRegistersWithoutCollision(t *testing.T) {
	b := osboundary.New(time.Second)
	sb := sandbox.New()
	specs := All(b, sb)
	require.Len(t, specs, 2)

	r := tools.NewRegistry()
	for _, spec := range specs {
		require.NoError(t, r.Register(spec))
	}
}

func TestRunProgramToolRunsSource(t *testing.T) {
	b := osboundary.New(time.Second)
	sb := sandbox.New()
	var runProgram *tools.ToolSpec
	for _, spec := range All(b, sb) {
		if spec.Name == "run_program" {
			runProgram = spec
		}
	}
	require.NotNil(t, runProgram)

	source := `func RunTool(input string) (string, error) { return "hi " + input, nil }`
	out, err := runProgram.Handler(context.Background(), map[string]any{"source": source, "input": "there"})
	require.NoError(t, err)
	require.Equal(t, "hi there", out)
}

func TestRunProgramToolRequiresSource(t *testing.T) {
	b := osboundary.New(time.Second)
	sb := sandbox.New()
	var runProgram *tools.ToolSpec
	for _, spec := range All(b, sb) {
		if spec.Name == "run_program" {
			runProgram = spec
		}
	}
	require.NotNil(t, runProgram)

	_, err := runProgram.Handler(context.Background(), map[string]any{})
	require.Error(t, err)
}

func TestInstallDependencyToolRejectsUnknownDependency(t *testing.T) {
	b := osboundary.New(time.Second)
	sb := sandbox.New()
	var installer *tools.ToolSpec
	for _, spec := range All(b, sb) {
		if spec.Name == "system.install_dependency" {
			installer = spec
		}
	}
	require.NotNil(t, installer)

	_, err := installer.Handler(context.Background(), map[string]any{"dependency": "rm -rf /"})
	require.Error(t, err)
}
