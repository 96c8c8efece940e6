// Package platform normalizes the host operating system and CPU architecture
// into the canonical identifier used to name log-viewer artifacts.
//
// Raw host strings come from a Detector (gopsutil on real hosts) and are
// mapped through constant lookup tables by Identify. The same identifier is
// exposed to provisioning configs as a read-only Lua table.
package platform

import (
	"context"
	"errors"
	"fmt"
)

// OS is a canonical operating system name.
type OS string

// Arch is a canonical CPU architecture name.
type Arch string

const (
	OSDarwin  OS = "darwin"
	OSLinux   OS = "linux"
	OSWindows OS = "win32"

	ArchX64   Arch = "x64"
	ArchARM64 Arch = "arm64"
)

// ErrUnsupported is matched by every UnsupportedError.
var ErrUnsupported = errors.New("unsupported platform")

// Identifier is the canonical {os, arch} pair.
type Identifier struct {
	OS   OS
	Arch Arch
}

// Key returns the "{os}-{arch}" form used in directory and asset names.
func (id Identifier) Key() string {
	return string(id.OS) + "-" + string(id.Arch)
}

// String implements fmt.Stringer.
func (id Identifier) String() string {
	return string(id.OS) + "/" + string(id.Arch)
}

// IsWindows reports whether the identifier names a Windows host.
func (id Identifier) IsWindows() bool {
	return id.OS == OSWindows
}

// IsMacOS reports whether the identifier names a macOS host.
func (id Identifier) IsMacOS() bool {
	return id.OS == OSDarwin
}

// IsLinux reports whether the identifier names a Linux host.
func (id Identifier) IsLinux() bool {
	return id.OS == OSLinux
}

// IsARM64 reports whether the architecture is arm64.
func (id Identifier) IsARM64() bool {
	return id.Arch == ArchARM64
}

// IsX64 reports whether the architecture is x64.
func (id Identifier) IsX64() bool {
	return id.Arch == ArchX64
}

// ExecutableSuffix returns ".exe" on Windows and "" elsewhere.
func (id Identifier) ExecutableSuffix() string {
	if id.IsWindows() {
		return ".exe"
	}
	return ""
}

// Raw holds the host-reported strings before normalization.
type Raw struct {
	OS   string
	Arch string
}

// UnsupportedError reports raw values that have no canonical mapping.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform: %s/%s", e.OS, e.Arch)
}

// Is lets errors.Is match ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Detector reports the raw host OS and architecture strings.
type Detector interface {
	Detect(ctx context.Context) (Raw, error)
}
