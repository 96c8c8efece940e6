package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// hostInfo is a test seam for gopsutil host detection.
var hostInfo = host.InfoWithContext

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reports the host OS and kernel architecture as gopsutil sees them
// (e.g. "linux"/"aarch64", "darwin"/"arm64").
//
// When gopsutil cannot answer, each missing value falls back to runtime.GOOS
// or runtime.GOARCH so that detection still works on minimal hosts. A
// cancelled context is a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (Raw, error) {
	raw := Raw{OS: runtime.GOOS, Arch: runtime.GOARCH}

	info, err := hostInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Raw{}, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return raw, nil
	}

	if info == nil {
		return raw, nil
	}
	if info.OS != "" {
		raw.OS = info.OS
	}
	if info.KernelArch != "" {
		raw.Arch = info.KernelArch
	}

	return raw, nil
}

// Current detects the host and maps it to a canonical Identifier using the
// default tables.
func Current(ctx context.Context, detector Detector) (Identifier, error) {
	if detector == nil {
		detector = NewDetector()
	}

	raw, err := detector.Detect(ctx)
	if err != nil {
		return Identifier{}, err
	}

	return Identify(raw.OS, raw.Arch, DefaultTables())
}
