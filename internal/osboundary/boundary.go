// Package osboundary is the only component in AURA permitted to call
// platform APIs. Every tool handler that needs an OS side effect (volume,
// brightness, power state, application windows, input injection, clipboard,
// filesystem, screenshots, wall-clock time) goes through a Boundary value
// instead of importing os/exec or a platform package directly, per the
// single-point-of-contact rule in the OS Boundary contract.
//
// The flat operation surface (audio.*, display.*, power.*, apps.*, input.*,
// clipboard.*, files.*, desktop.*, time.*) is implemented here with each
// operation backed by a platform-specific function selected at build time,
// the same build-tag split the teacher uses in internal/tactile's
// platform_linux.go/platform_darwin.go/platform_windows.go.
package osboundary

import (
	"context"
	"time"

	"aura/internal/errs"
	"aura/internal/logging"
)

// Boundary is the single handle through which Layer 1/2 tool handlers reach
// the host OS. It is constructed once in cmd/aura/main.go and threaded by
// parameter, never a package singleton.
type Boundary struct {
	commandTimeout time.Duration
}

// New constructs a Boundary. commandTimeout bounds every shelled-out
// platform command (pactl, osascript, powershell, ...); it does not bound
// files.* operations, which are pure Go and return immediately.
func New(commandTimeout time.Duration) *Boundary {
	if commandTimeout <= 0 {
		commandTimeout = 10 * time.Second
	}
	return &Boundary{commandTimeout: commandTimeout}
}

// unsupported builds the typed error the Executor surfaces uniformly when a
// capability tag has no implementation on the running platform.
func unsupported(op string) error {
	return errs.New(errs.Unsupported, "osboundary: "+op+" is not supported on this platform")
}

// --- audio.* ---

func (b *Boundary) SetVolume(ctx context.Context, level int) error {
	logging.OSBoundary("audio.set_volume level=%d", level)
	return setVolume(ctx, b, clampPercent(level))
}

func (b *Boundary) Mute(ctx context.Context) error {
	logging.OSBoundary("audio.mute")
	return muteVolume(ctx, b)
}

func (b *Boundary) Unmute(ctx context.Context) error {
	logging.OSBoundary("audio.unmute")
	return unmuteVolume(ctx, b)
}

func (b *Boundary) GetVolume(ctx context.Context) (int, error) {
	logging.OSBoundary("audio.get_volume")
	return getVolume(ctx, b)
}

// --- display.* ---

func (b *Boundary) SetBrightness(ctx context.Context, level int) error {
	logging.OSBoundary("display.set_brightness level=%d", level)
	return setBrightness(ctx, b, clampPercent(level))
}

func (b *Boundary) GetBrightness(ctx context.Context) (int, error) {
	logging.OSBoundary("display.get_brightness")
	return getBrightness(ctx, b)
}

// --- power.* ---

func (b *Boundary) Lock(ctx context.Context) error {
	logging.OSBoundary("power.lock")
	return lockScreen(ctx, b)
}

func (b *Boundary) Sleep(ctx context.Context) error {
	logging.OSBoundary("power.sleep")
	return sleepSystem(ctx, b)
}

func (b *Boundary) Shutdown(ctx context.Context) error {
	logging.OSBoundary("power.shutdown")
	return shutdownSystem(ctx, b)
}

// --- apps.* ---

func (b *Boundary) OpenApp(ctx context.Context, nameOrPath string, args []string) error {
	logging.OSBoundary("apps.open target=%s", nameOrPath)
	return openApp(ctx, b, nameOrPath, args)
}

func (b *Boundary) CloseApp(ctx context.Context, name string) error {
	logging.OSBoundary("apps.close target=%s", name)
	return closeApp(ctx, b, name)
}

func (b *Boundary) FocusApp(ctx context.Context, name string) error {
	logging.OSBoundary("apps.focus target=%s", name)
	return focusApp(ctx, b, name)
}

// --- input.* ---

func (b *Boundary) TypeText(ctx context.Context, text string) error {
	logging.OSBoundary("input.type len=%d", len(text))
	return typeText(ctx, b, text)
}

func (b *Boundary) PressKey(ctx context.Context, key string) error {
	logging.OSBoundary("input.key key=%s", key)
	return pressKey(ctx, b, key)
}

func (b *Boundary) Click(ctx context.Context, x, y int) error {
	logging.OSBoundary("input.click x=%d y=%d", x, y)
	return clickAt(ctx, b, x, y)
}

// --- clipboard.* ---

func (b *Boundary) ClipboardRead(ctx context.Context) (string, error) {
	logging.OSBoundary("clipboard.read")
	return readClipboard(ctx, b)
}

func (b *Boundary) ClipboardWrite(ctx context.Context, text string) error {
	logging.OSBoundary("clipboard.write len=%d", len(text))
	return writeClipboard(ctx, b, text)
}

// --- desktop.* ---

func (b *Boundary) Screenshot(ctx context.Context, outPath string) (string, error) {
	logging.OSBoundary("desktop.screenshot out=%s", outPath)
	return screenshot(ctx, b, outPath)
}

// --- time.* ---

// Now returns the host wall-clock time. Unlike every other operation this
// never shells out; it exists in the boundary purely so tool handlers never
// call time.Now() directly, keeping "every OS side effect goes through the
// boundary" literally true rather than true-with-an-exception.
func (b *Boundary) Now(_ context.Context) (time.Time, error) {
	return time.Now(), nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
