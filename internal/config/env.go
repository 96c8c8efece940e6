package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackageRoot returns the package tree the wrapper searches for the binary:
// $SMOOAI_LOG_VIEWER_PACKAGE_ROOT when set, otherwise the directory holding
// the wrapper executable with symlinks resolved. executable is normally
// os.Executable.
func PackageRoot(executable func() (string, error)) (string, error) {
	if root := strings.TrimSpace(os.Getenv(EnvPackageRoot)); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", EnvPackageRoot, err)
		}
		return abs, nil
	}

	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("locate wrapper executable: %w", err)
	}

	// Package managers commonly install a symlink on PATH
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve wrapper executable: %w", err)
	}

	return filepath.Dir(resolved), nil
}

// LogLevel returns $SMOOAI_LOG_VIEWER_LOG, or DefaultLogLevel when unset.
func LogLevel() string {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		return level
	}
	return DefaultLogLevel
}
