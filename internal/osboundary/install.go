package osboundary

import (
	"context"

	"aura/internal/errs"
)

// installableDependencies is the fixed allowlist the constrained installer
// tool (§4.8's "request installation through a constrained installer
// tool") is restricted to: the optional third-party utilities the
// platform_*.go backends in this package shell out to, plus amixer, which no
// backend calls. Binaries that ship with the OS (loginctl, systemctl,
// osascript, powershell, ...) are not on the list. InstallDependency refuses
// anything outside this set before ever touching a package manager, so
// Self-Healing's repair step cannot be turned into an arbitrary-install
// primitive by a generated program or a malformed MissingDependency
// message.
var installableDependencies = map[string]bool{
	"pactl":          true,
	"brightnessctl":  true,
	"wmctrl":         true,
	"xdotool":        true,
	"xclip":          true,
	"scrot":          true,
	"brightness":     true,
	"amixer":         true,
}

// InstallDependency requests installation of name through the host's
// package manager, the one platform API call the Self-Healing Loop's
// dependency-repair step is allowed to trigger. It is deliberately part of
// the OS Boundary rather than a direct os/exec call from internal/healing,
// preserving "every platform API call lives here."
func (b *Boundary) InstallDependency(ctx context.Context, name string) error {
	if !installableDependencies[name] {
		return errs.New(errs.Unsupported, "osboundary: "+name+" is not on the installable-dependency allowlist")
	}
	return installDependency(ctx, b, name)
}
