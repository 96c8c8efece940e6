// Package testutil provides utilities for testing the launcher in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Root      string
	Home      string
	ConfigDir string // XDG_CONFIG_HOME
}

// SetupTestEnv isolates HOME and the XDG directories under a temp dir so
// tests never read the user's real provision.lua, and clears the
// launcher's environment overrides. xdg is reloaded now and again when the
// test ends.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Root:      tmpDir,
		Home:      filepath.Join(tmpDir, "home"),
		ConfigDir: filepath.Join(tmpDir, "config"),
	}

	// Registered first so it runs after the variables below are restored
	t.Cleanup(xdg.Reload)

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigDir)
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(tmpDir, "etc-xdg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))

	t.Setenv("SMOOAI_LOG_VIEWER_PACKAGE_ROOT", "")
	t.Setenv("SMOOAI_LOG_VIEWER_LOG", "")

	for _, dir := range []string{env.Home, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	xdg.Reload()

	return env
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
