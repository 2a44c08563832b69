//go:build !linux && !darwin && !windows

package osboundary

import "context"

// Platforms outside the three the teacher builds for (BSD, plan9, wasm, ...)
// get no live backend: every operation returns the typed unsupported error
// the Executor surfaces uniformly, matching §4.9's "typed unsupported error"
// rule for platforms lacking a capability.

func setVolume(ctx context.Context, b *Boundary, level int) error   { return unsupported("audio.set_volume") }
func muteVolume(ctx context.Context, b *Boundary) error             { return unsupported("audio.mute") }
func unmuteVolume(ctx context.Context, b *Boundary) error           { return unsupported("audio.unmute") }
func getVolume(ctx context.Context, b *Boundary) (int, error)       { return 0, unsupported("audio.get_volume") }
func setBrightness(ctx context.Context, b *Boundary, level int) error {
	return unsupported("display.set_brightness")
}
func getBrightness(ctx context.Context, b *Boundary) (int, error) {
	return 0, unsupported("display.get_brightness")
}
func lockScreen(ctx context.Context, b *Boundary) error     { return unsupported("power.lock") }
func sleepSystem(ctx context.Context, b *Boundary) error    { return unsupported("power.sleep") }
func shutdownSystem(ctx context.Context, b *Boundary) error { return unsupported("power.shutdown") }
func openApp(ctx context.Context, b *Boundary, nameOrPath string, args []string) error {
	return unsupported("apps.open")
}
func closeApp(ctx context.Context, b *Boundary, name string) error { return unsupported("apps.close") }
func focusApp(ctx context.Context, b *Boundary, name string) error { return unsupported("apps.focus") }
func typeText(ctx context.Context, b *Boundary, text string) error { return unsupported("input.type") }
func pressKey(ctx context.Context, b *Boundary, key string) error  { return unsupported("input.key") }
func clickAt(ctx context.Context, b *Boundary, x, y int) error     { return unsupported("input.click") }
func readClipboard(ctx context.Context, b *Boundary) (string, error) {
	return "", unsupported("clipboard.read")
}
func writeClipboard(ctx context.Context, b *Boundary, text string) error {
	return unsupported("clipboard.write")
}
func screenshot(ctx context.Context, b *Boundary, outPath string) (string, error) {
	return "", unsupported("desktop.screenshot")
}
func installDependency(ctx context.Context, b *Boundary, name string) error {
	return unsupported("system.install_dependency")
}
