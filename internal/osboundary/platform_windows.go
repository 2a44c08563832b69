//go:build windows

package osboundary

import (
	"context"
	"strconv"
	"strings"

	"aura/internal/errs"
)

// Windows backends shell out to PowerShell, the lowest-ceremony way to reach
// volume, brightness, and power controls without a dedicated cgo binding -
// consistent with the teacher's own platform_windows.go falling back to
// Win32 API calls only where PowerShell has no equivalent.

func setVolume(ctx context.Context, b *Boundary, level int) error {
	// Each volume key press moves the level by 2%: drive it to zero with
	// volume-down, then step up to the requested level with volume-up.
	script := "(New-Object -ComObject WScript.Shell); $obj = New-Object -ComObject WScript.Shell; for ($i=0; $i -lt 50; $i++) { $obj.SendKeys([char]174) }; for ($i=0; $i -lt " + strconv.Itoa(level/2) + "; $i++) { $obj.SendKeys([char]175) }"
	_, err := b.run(ctx, "powershell", "-NoProfile", "-Command", script)
	return err
}

func muteVolume(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "powershell", "-NoProfile", "-Command", "(New-Object -ComObject WScript.Shell).SendKeys([char]173)")
	return err
}

func unmuteVolume(ctx context.Context, b *Boundary) error {
	return muteVolume(ctx, b)
}

func getVolume(ctx context.Context, b *Boundary) (int, error) {
	return 0, unsupported("audio.get_volume")
}

func setBrightness(ctx context.Context, b *Boundary, level int) error {
	script := "(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightnessMethods).WmiSetBrightness(1," + strconv.Itoa(level) + ")"
	_, err := b.run(ctx, "powershell", "-NoProfile", "-Command", script)
	return err
}

func getBrightness(ctx context.Context, b *Boundary) (int, error) {
	out, err := b.run(ctx, "powershell", "-NoProfile", "-Command", "(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightness).CurrentBrightness")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

func lockScreen(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "rundll32.exe", "user32.dll,LockWorkStation")
	return err
}

func sleepSystem(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0")
	return err
}

func shutdownSystem(ctx context.Context, b *Boundary) error {
	_, err := b.run(ctx, "shutdown", "/s", "/t", "0")
	return err
}

func openApp(ctx context.Context, b *Boundary, nameOrPath string, args []string) error {
	fullArgs := append([]string{"/C", "start", "", nameOrPath}, args...)
	_, err := b.run(ctx, "cmd", fullArgs...)
	return err
}

func closeApp(ctx context.Context, b *Boundary, name string) error {
	_, err := b.run(ctx, "taskkill", "/IM", name, "/F")
	return err
}

func focusApp(ctx context.Context, b *Boundary, name string) error {
	return unsupported("apps.focus")
}

func typeText(ctx context.Context, b *Boundary, text string) error {
	escaped := strings.ReplaceAll(text, "'", "''")
	script := "(New-Object -ComObject WScript.Shell).SendKeys('" + escaped + "')"
	_, err := b.run(ctx, "powershell", "-NoProfile", "-Command", script)
	return err
}

func pressKey(ctx context.Context, b *Boundary, key string) error {
	script := "(New-Object -ComObject WScript.Shell).SendKeys('" + key + "')"
	_, err := b.run(ctx, "powershell", "-NoProfile", "-Command", script)
	return err
}

func clickAt(ctx context.Context, b *Boundary, x, y int) error {
	return unsupported("input.click")
}

func readClipboard(ctx context.Context, b *Boundary) (string, error) {
	return b.run(ctx, "powershell", "-NoProfile", "-Command", "Get-Clipboard")
}

func writeClipboard(ctx context.Context, b *Boundary, text string) error {
	_, err := b.runStdin(ctx, text, "powershell", "-NoProfile", "-Command", "Set-Clipboard -Value ($input | Out-String)")
	return err
}

func screenshot(ctx context.Context, b *Boundary, outPath string) (string, error) {
	if outPath == "" {
		return "", errs.New(errs.BadArgs, "desktop.screenshot: out path required")
	}
	script := "Add-Type -AssemblyName System.Windows.Forms; " +
		"$b = [System.Windows.Forms.SystemInformation]::VirtualScreen; " +
		"$bmp = New-Object System.Drawing.Bitmap $b.Width, $b.Height; " +
		"$g = [System.Drawing.Graphics]::FromImage($bmp); " +
		"$g.CopyFromScreen($b.Left, $b.Top, 0, 0, $bmp.Size); " +
		"$bmp.Save('" + outPath + "')"
	_, err := b.run(ctx, "powershell", "-NoProfile", "-Command", script)
	return outPath, err
}

// installDependency is unsupported on Windows: every capability the
// Windows backend needs ships with the OS (PowerShell, rundll32, taskkill),
// so there is nothing in the allowlist for this platform to install.
func installDependency(ctx context.Context, b *Boundary, name string) error {
	return unsupported("system.install_dependency")
}
