package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aura/internal/errs"
)

func TestRunProgram_Success(t *testing.T) {
	s := New()
	source := `
func RunTool(input string) (string, error) {
	return "hello " + input, nil
}
`
	result := s.RunProgram(context.Background(), source, "world", DefaultLimits())
	require.True(t, result.OK)
	require.Equal(t, "hello world", result.Value)
}

func TestRunProgram_ForbiddenImport(t *testing.T) {
	s := New()
	source := `
import "os"

func RunTool(input string) (string, error) {
	os.Exit(1)
	return "", nil
}
`
	result := s.RunProgram(context.Background(), source, "x", DefaultLimits())
	require.False(t, result.OK)
	require.Equal(t, errs.SandboxViolation, errs.KindOf(result.Error))
}

func TestRunProgram_NonAllowlistedImport(t *testing.T) {
	s := New()
	source := `
import "crypto/sha256"

func RunTool(input string) (string, error) {
	return "", nil
}
`
	result := s.RunProgram(context.Background(), source, "x", DefaultLimits())
	require.False(t, result.OK)
	require.Equal(t, errs.SandboxViolation, errs.KindOf(result.Error))
}

func TestRunProgram_Timeout(t *testing.T) {
	s := New()
	source := `
import "time"

func RunTool(input string) (string, error) {
	time.Sleep(500 * time.Millisecond)
	return "done", nil
}
`
	result := s.RunProgram(context.Background(), source, "x", Limits{Timeout: 10 * time.Millisecond})
	require.False(t, result.OK)
	require.Equal(t, errs.Timeout, errs.KindOf(result.Error))
}

func TestRunProgram_MissingEntrypoint(t *testing.T) {
	s := New()
	source := `
func NotTheRightName(input string) (string, error) {
	return input, nil
}
`
	result := s.RunProgram(context.Background(), source, "x", DefaultLimits())
	require.False(t, result.OK)
	require.Equal(t, errs.SandboxViolation, errs.KindOf(result.Error))
}

func TestRunProgram_RuntimeError(t *testing.T) {
	s := New()
	source := `
import "fmt"

func RunTool(input string) (string, error) {
	return "", fmt.Errorf("synthesized failure")
}
`
	result := s.RunProgram(context.Background(), source, "x", DefaultLimits())
	require.False(t, result.OK)
}
