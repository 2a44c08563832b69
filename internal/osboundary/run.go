package osboundary

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"aura/internal/errs"
)

// maxOutputBytes caps captured stdout/stderr from a shelled-out platform
// command, the same truncation strategy as the teacher's limitedWriter.
const maxOutputBytes = 64 * 1024

// run executes binary with args under the Boundary's command timeout and
// returns trimmed stdout. It is the single choke point every platform_*.go
// backend uses to shell out, mirroring DirectExecutor.Execute but scoped
// down to what the OS Boundary's named operations actually need: no stdin,
// no resource limits, no sandbox modes.
func (b *Boundary) run(ctx context.Context, binary string, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, b.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, max: maxOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderr, max: maxOutputBytes}

	err := cmd.Run()
	if execCtx.Err() == context.DeadlineExceeded {
		return "", errs.New(errs.Timeout, binary+" timed out after "+b.commandTimeout.String())
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			return "", errs.Wrap(errs.Internal, binary+" exited non-zero: "+msg, err)
		}
		if isNotFound(err) {
			return "", errs.WrapMissingDependency(binary, binary+" is not installed", err)
		}
		return "", errs.Wrap(errs.Internal, binary+" failed", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runStdin is like run but feeds stdin to the child process, used by
// clipboard writers that read their payload from stdin rather than argv.
func (b *Boundary) runStdin(ctx context.Context, stdin string, binary string, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, b.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, binary, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, max: maxOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderr, max: maxOutputBytes}

	err := cmd.Run()
	if execCtx.Err() == context.DeadlineExceeded {
		return "", errs.New(errs.Timeout, binary+" timed out after "+b.commandTimeout.String())
	}
	if err != nil {
		if isNotFound(err) {
			return "", errs.WrapMissingDependency(binary, binary+" is not installed", err)
		}
		return "", errs.Wrap(errs.Internal, binary+" failed", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "executable file not found")
}

// limitedWriter caps total bytes written, discarding the remainder rather
// than growing an unbounded buffer for a runaway command.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		lw.truncated = true
		return n, nil
	}
	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		p = p[:remaining]
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return n, err
}
