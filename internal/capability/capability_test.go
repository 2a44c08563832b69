package capability

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"aura/internal/errs"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capabilities.json")
	builtins := []BuiltinTrigger{
		{ToolName: "audio.mute", Phrases: []string{"mute"}},
	}
	return New(path, builtins)
}

func TestPromote_Succeeds(t *testing.T) {
	s := newTestStore(t)
	cap := Capability{
		Name:     "good_morning_routine",
		Triggers: []string{"good morning"},
		ToolName: "run_program",
		ArgsTemplate: map[string]any{"program": "morning.go"},
	}
	require.NoError(t, s.Promote(cap))

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "good_morning_routine", snap[0].Name)
	require.Equal(t, SourcePromoted, snap[0].Source)
}

func TestPromote_IdempotentReprompotion(t *testing.T) {
	s := newTestStore(t)
	cap := Capability{Name: "x", Triggers: []string{"do the thing"}, ToolName: "run_program"}
	require.NoError(t, s.Promote(cap))
	require.NoError(t, s.Promote(cap))
	require.Len(t, s.Snapshot(), 1)
}

func TestPromote_IdempotentReprompotionWithSliceArgDoesNotPanic(t *testing.T) {
	s := newTestStore(t)
	cap := Capability{
		Name:         "open_project_files",
		Triggers:     []string{"open the project files"},
		ToolName:     "run_program",
		ArgsTemplate: map[string]any{"paths": []any{"a.go", "b.go"}},
	}
	require.NotPanics(t, func() {
		require.NoError(t, s.Promote(cap))
		require.NoError(t, s.Promote(cap))
	})
	require.Len(t, s.Snapshot(), 1)
}

func TestPromote_RejectsDifferentDefinitionSameName(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Promote(Capability{Name: "x", Triggers: []string{"a"}, ToolName: "run_program"}))
	err := s.Promote(Capability{Name: "x", Triggers: []string{"b"}, ToolName: "run_program"})
	require.Error(t, err)
	require.Equal(t, errs.BadArgs, errs.KindOf(err))
}

func TestPromote_RejectsBuiltinCollision(t *testing.T) {
	s := newTestStore(t)
	err := s.Promote(Capability{Name: "custom_mute", Triggers: []string{"mute"}, ToolName: "run_program"})
	require.Error(t, err)
	require.Equal(t, errs.BadArgs, errs.KindOf(err))
}

func TestPromote_RejectsPromotedCollision(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Promote(Capability{Name: "a", Triggers: []string{"evening routine"}, ToolName: "run_program"}))
	err := s.Promote(Capability{Name: "b", Triggers: []string{"evening routine"}, ToolName: "run_program"})
	require.Error(t, err)
}

func TestPromote_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capabilities.json")
	s1 := New(path, nil)
	original := Capability{
		Name:         "x",
		Triggers:     []string{"do the thing"},
		ToolName:     "run_program",
		ArgsTemplate: map[string]any{"source": "func RunTool(input string) (string, error) { return input, nil }"},
	}
	require.NoError(t, s1.Promote(original))

	s2 := New(path, nil)
	require.NoError(t, s2.Load())
	reloaded := s2.Snapshot()
	require.Len(t, reloaded, 1)

	// CreatedAt is server-assigned during Promote and round-trips through
	// JSON with a different time.Time representation, so it is excluded
	// from the structural comparison rather than asserted field by field.
	if diff := cmp.Diff(original, reloaded[0], cmpopts.IgnoreFields(Capability{}, "CreatedAt", "Source")); diff != "" {
		t.Errorf("reloaded capability differs from what was promoted (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope.json"), nil)
	require.NoError(t, s.Load())
	require.Empty(t, s.Snapshot())
}

func TestWatch_PicksUpExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capabilities.json")
	writer := New(path, nil)
	require.NoError(t, writer.Promote(Capability{Name: "a", Triggers: []string{"first"}, ToolName: "run_program"}))

	reader := New(path, nil)
	require.NoError(t, reader.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, reader.Watch(ctx))

	require.NoError(t, writer.Promote(Capability{Name: "b", Triggers: []string{"second"}, ToolName: "run_program"}))

	require.Eventually(t, func() bool {
		return len(reader.Snapshot()) == 2
	}, 2*time.Second, 20*time.Millisecond, "reader never observed the externally promoted capability")
}

func TestWatch_NoopOnEmptyPath(t *testing.T) {
	s := New("", nil)
	require.NoError(t, s.Watch(context.Background()))
}

func TestReload_MissingFileClearsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capabilities.json")
	s := New(path, nil)
	require.NoError(t, s.Promote(Capability{Name: "a", Triggers: []string{"first"}, ToolName: "run_program"}))
	require.NoError(t, os.Remove(path))
	require.NoError(t, s.reload())
	require.Empty(t, s.Snapshot())
}
