package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smooai/log-viewer-launcher/internal/testutil"
)

func TestPackageRootFromEnv(t *testing.T) {
	testutil.SetupTestEnv(t)
	root := t.TempDir()
	t.Setenv(EnvPackageRoot, root)

	got, err := PackageRoot(func() (string, error) {
		t.Fatal("executable must not be consulted when the override is set")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestPackageRootFromExecutable(t *testing.T) {
	testutil.SetupTestEnv(t)
	dir := t.TempDir()
	exe := testutil.WriteFile(t, dir, "smooai-log-viewer", "#!/bin/sh\n", 0o755)

	got, err := PackageRoot(func() (string, error) { return exe, nil })
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPackageRootFollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	testutil.SetupTestEnv(t)

	pkg := t.TempDir()
	exe := testutil.WriteFile(t, pkg, "smooai-log-viewer", "#!/bin/sh\n", 0o755)
	bin := t.TempDir()
	link := filepath.Join(bin, "smooai-log-viewer")
	require.NoError(t, os.Symlink(exe, link))

	got, err := PackageRoot(func() (string, error) { return link, nil })
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(pkg)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPackageRootExecutableError(t *testing.T) {
	testutil.SetupTestEnv(t)

	_, err := PackageRoot(func() (string, error) { return "", errors.New("no proc") })
	assert.ErrorContains(t, err, "locate wrapper executable")
}

func TestLogLevel(t *testing.T) {
	testutil.SetupTestEnv(t)
	assert.Equal(t, DefaultLogLevel, LogLevel())

	t.Setenv(EnvLogLevel, " debug ")
	assert.Equal(t, "debug", LogLevel())
}
