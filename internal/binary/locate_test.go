package binary

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutPath(t *testing.T) {
	l := Layout{PackageRoot: "/pkg"}
	assert.Equal(t, filepath.Join("/pkg", "log-viewer", "darwin-arm64", "smooai-log-viewer"), l.Path(darwinARM64))
	assert.Equal(t, filepath.Join("/pkg", "log-viewer", "win32-x64", "smooai-log-viewer.exe"), l.Path(windowsX64))
}

func TestLocatorLocate(t *testing.T) {
	root := t.TempDir()
	loc := NewLocator(root)
	path := Layout{PackageRoot: root}.Path(linuxX64)

	_, err := loc.Locate(linuxX64)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
	assert.Equal(t, path, nf.Path)
	assert.False(t, nf.NotExecutable)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "Ensure Rust is installed")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("BINARY"), 0755))

	artifact, err := loc.Locate(linuxX64)
	require.NoError(t, err)
	assert.Equal(t, path, artifact.Path)
	assert.Equal(t, linuxX64, artifact.Identifier)
}

func TestLocatorDirectoryIsNotABinary(t *testing.T) {
	root := t.TempDir()
	path := Layout{PackageRoot: root}.Path(linuxX64)
	require.NoError(t, os.MkdirAll(path, 0755))

	_, err := NewLocator(root).Locate(linuxX64)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestLocatorNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not tracked on windows")
	}
	root := t.TempDir()
	path := Layout{PackageRoot: root}.Path(darwinARM64)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("BINARY"), 0644))

	_, err := NewLocator(root).Locate(darwinARM64)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.True(t, nf.NotExecutable)
	assert.Contains(t, err.Error(), "chmod +x "+path)
}

func TestLocatorWindowsIgnoresMode(t *testing.T) {
	root := t.TempDir()
	path := Layout{PackageRoot: root}.Path(windowsX64)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0644))

	artifact, err := NewLocator(root).Locate(windowsX64)
	require.NoError(t, err)
	assert.Equal(t, path, artifact.Path)
}
