//go:build linux

package osboundary

import (
	"context"
	"strconv"
	"strings"

	"aura/internal/errs"
)

// Linux backends shell out to the common desktop utilities: pactl
// for audio, brightnessctl for display, loginctl/systemctl for power,
// wmctrl/xdotool for windows and input, xclip for the clipboard, and scrot
// for screenshots. Each is optional; a missing binary surfaces as
// ErrorKind::MissingDependency rather than a panic.

func setVolume(ctx context.Context, b *Boundary, level int) error {
	_, err := b.run(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", strconv.Itoa(level)+"%")
	return err
}

func muteVolume(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", "1")
	return err
}

func unmuteVolume(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", "0")
	return err
}

func getVolume(ctx context.Context, b *Boundary) (int, error) {
	out, err := b.run(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return 0, err
	}
	return parseFirstPercent(out)
}

func setBrightness(ctx context.Context, b *Boundary, level int) error {
	_, err := b.run(ctx, "brightnessctl", "set", strconv.Itoa(level)+"%")
	return err
}

func getBrightness(ctx context.Context, b *Boundary) (int, error) {
	out, err := b.run(ctx, "brightnessctl", "get")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

func lockScreen(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "loginctl", "lock-session")
	return err
}

func sleepSystem(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "systemctl", "suspend")
	return err
}

func shutdownSystem(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "systemctl", "poweroff")
	return err
}

func openApp(ctx context.Context, b *Boundary, nameOrPath string, args []string) error {
	_, err := b.run(ctx, nameOrPath, args...)
	return err
}

func closeApp(ctx context.Context, b *Boundary, name string) error {
	_, err := b.run(ctx, "wmctrl", "-c", name)
	return err
}

func focusApp(ctx context.Context, b *Boundary, name string) error {
	_, err := b.run(ctx, "wmctrl", "-a", name)
	return err
}

func typeText(ctx context.Context, b *Boundary, text string) error {
	_, err := b.run(ctx, "xdotool", "type", "--", text)
	return err
}

func pressKey(ctx context.Context, b *Boundary, key string) error {
	_, err := b.run(ctx, "xdotool", "key", key)
	return err
}

func clickAt(ctx context.Context, b *Boundary, x, y int) error {
	_, err := b.run(ctx, "xdotool", "mousemove", strconv.Itoa(x), strconv.Itoa(y), "click", "1")
	return err
}

func readClipboard(ctx context.Context, b *Boundary) (string, error) {
	return b.run(ctx, "xclip", "-selection", "clipboard", "-o")
}

func writeClipboard(ctx context.Context, b *Boundary, text string) error {
	_, err := b.runStdin(ctx, text, "xclip", "-selection", "clipboard")
	return err
}

func screenshot(ctx context.Context, b *Boundary, outPath string) (string, error) {
	if outPath == "" {
		return "", errs.New(errs.BadArgs, "desktop.screenshot: out path required")
	}
	_, err := b.run(ctx, "scrot", outPath)
	return outPath, err
}

func parseFirstPercent(out string) (int, error) {
	idx := strings.Index(out, "%")
	if idx < 0 {
		return 0, errs.New(errs.Internal, "could not parse volume from: "+out)
	}
	start := idx
	for start > 0 && (out[start-1] == ' ' || (out[start-1] >= '0' && out[start-1] <= '9')) {
		start--
		if out[start] == ' ' {
			start++
			break
		}
	}
	return strconv.Atoi(strings.TrimSpace(out[start:idx]))
}

// installDependency installs a missing desktop utility via apt-get, the
// lowest-common-denominator package manager across the Linux distributions
// the other platform_linux.go backends target.
func installDependency(ctx context.Context, b *Boundary, name string) error {
	pkg := name
	if name == "pactl" {
		pkg = "pulseaudio-utils"
	}
	_, err := b.run(ctx, "apt-get", "install", "-y", pkg)
	return err
}
