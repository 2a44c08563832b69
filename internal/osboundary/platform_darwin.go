//go:build darwin

package osboundary

import (
	"context"
	"strconv"
	"strings"

	"aura/internal/errs"
)

// macOS backends lean on osascript (AppleScript bridge) and pmset, the same
// pattern internal/tactile/platform_darwin.go uses for process-level
// introspection, extended here to the desktop-level operations AURA needs.

func setVolume(ctx context.Context, b *Boundary, level int) error {
	_, err := b.run(ctx, "osascript", "-e", "set volume output volume "+strconv.Itoa(level))
	return err
}

func muteVolume(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "osascript", "-e", "set volume with output muted")
	return err
}

func unmuteVolume(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "osascript", "-e", "set volume without output muted")
	return err
}

func getVolume(ctx context.Context, b *Boundary) (int, error) {
	out, err := b.run(ctx, "osascript", "-e", "output volume of (get volume settings)")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

func setBrightness(ctx context.Context, b *Boundary, level int) error {
	// brightness takes 0.0-1.0 on macOS; the "brightness" CLI (Homebrew) is
	// the de facto tool since Apple does not ship one.
	fraction := strconv.FormatFloat(float64(level)/100.0, 'f', 2, 64)
	_, err := b.run(ctx, "brightness", fraction)
	return err
}

func getBrightness(ctx context.Context, b *Boundary) (int, error) {
	out, err := b.run(ctx, "brightness", "-l")
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, errs.Wrap(errs.Internal, "could not parse brightness output", err)
	}
	return int(f * 100), nil
}

func lockScreen(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "pmset", "displaysleepnow")
	return err
}

func sleepSystem(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "pmset", "sleepnow")
	return err
}

func shutdownSystem(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "osascript", "-e", "tell app \"System Events\" to shut down")
	return err
}

func openApp(ctx context.Context, b *Boundary, nameOrPath string, args []string) error {
	fullArgs := append([]string{"-a", nameOrPath}, args...)
	_, err := b.run(ctx, "open", fullArgs...)
	return err
}

func closeApp(ctx context.Context, b *Boundary, name string) error {
	_, err := b.run(ctx, "osascript", "-e", "tell application \""+name+"\" to quit")
	return err
}

func focusApp(ctx context.Context, b *Boundary, name string) error {
	_, err := b.run(ctx, "osascript", "-e", "tell application \""+name+"\" to activate")
	return err
}

func typeText(ctx context.Context, b *Boundary, text string) error {
	script := "tell application \"System Events\" to keystroke \"" + strings.ReplaceAll(text, "\"", "\\\"") + "\""
	_, err := b.run(ctx, "osascript", "-e", script)
	return err
}

func pressKey(ctx context.Context, b *Boundary, key string) error {
	script := "tell application \"System Events\" to key code " + key
	_, err := b.run(ctx, "osascript", "-e", script)
	return err
}

func clickAt(ctx context.Context, b *Boundary, x, y int) error {
	script := "tell application \"System Events\" to click at {" + strconv.Itoa(x) + ", " + strconv.Itoa(y) + "}"
	_, err := b.run(ctx, "osascript", "-e", script)
	return err
}

func readClipboard(ctx context.Context, b *Boundary) (string, error) {
	return b.run(ctx, "pbpaste")
}

func writeClipboard(ctx context.Context, b *Boundary, text string) error {
	_, err := b.runStdin(ctx, text, "pbcopy")
	return err
}

func screenshot(ctx context.Context, b *Boundary, outPath string) (string, error) {
	if outPath == "" {
		return "", errs.New(errs.BadArgs, "desktop.screenshot: out path required")
	}
	_, err := b.run(ctx, "screencapture", "-x", outPath)
	return outPath, err
}

// installDependency installs a missing CLI utility (e.g. the third-party
// "brightness" tool Apple does not ship) via Homebrew.
func installDependency(ctx context.Context, b *Boundary, name string) error {
	_, err := b.run(ctx, "brew", "install", name)
	return err
}
