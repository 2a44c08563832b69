package osboundary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"aura/internal/errs"
)

func TestNowNeverShellsOut(t *testing.T) {
	b := New(time.Second)
	got, err := b.Now(context.Background())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), got, time.Second)
}

func TestClampPercent(t *testing.T) {
	require.Equal(t, 0, clampPercent(-5))
	require.Equal(t, 100, clampPercent(250))
	require.Equal(t, 42, clampPercent(42))
}

func TestFileRoundTrip(t *testing.T) {
	b := New(time.Second)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	require.NoError(t, b.FileCreate(ctx, path, []byte("hello")))
	data, err := b.FileRead(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	require.NoError(t, b.FileWrite(ctx, path, []byte("updated")))
	data, err = b.FileRead(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "updated", string(data))

	dst := filepath.Join(dir, "moved.txt")
	require.NoError(t, b.FileMove(ctx, path, dst))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, b.FileDelete(ctx, dst))
	_, err = os.Stat(dst)
	require.True(t, os.IsNotExist(err))
}

func TestFileReadMissingIsBadArgs(t *testing.T) {
	b := New(time.Second)
	_, err := b.FileRead(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Equal(t, errs.BadArgs, errs.KindOf(err))
}

func TestRunMissingBinaryIsMissingDependency(t *testing.T) {
	b := New(time.Second)
	_, err := b.run(context.Background(), "aura-osboundary-definitely-not-a-real-binary")
	require.Equal(t, errs.MissingDependency, errs.KindOf(err))
	require.Equal(t, "aura-osboundary-definitely-not-a-real-binary", errs.DependencyOf(err))
}

func TestRunRespectsTimeout(t *testing.T) {
	b := New(20 * time.Millisecond)
	_, err := b.run(context.Background(), "sleep", "1")
	require.Equal(t, errs.Timeout, errs.KindOf(err))
}
