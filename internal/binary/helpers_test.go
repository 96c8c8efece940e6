package binary

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

var (
	darwinARM64 = platform.Identifier{OS: platform.OSDarwin, Arch: platform.ArchARM64}
	linuxX64    = platform.Identifier{OS: platform.OSLinux, Arch: platform.ArchX64}
	windowsX64  = platform.Identifier{OS: platform.OSWindows, Arch: platform.ArchX64}
)

// fakeRunner stands in for the toolchain. The "--version" probe and the build
// are answered separately.
type fakeRunner struct {
	mu    sync.Mutex
	calls []Command

	probeCode int
	probeErr  error

	buildCode int
	buildErr  error
	onBuild   func(Command)
}

func (f *fakeRunner) Run(_ context.Context, c Command) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if len(c.Args) == 1 && c.Args[0] == "--version" {
		return f.probeCode, f.probeErr
	}
	if f.onBuild != nil {
		f.onBuild(c)
	}
	return f.buildCode, f.buildErr
}

func (f *fakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// writeManifest creates <root>/log-viewer/Cargo.toml.
func writeManifest(t *testing.T, root string) {
	t.Helper()
	path := Project{Root: root}.ManifestPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("[package]\nname = \"smooai-log-viewer\"\n"), 0644))
}

// buildOutputs returns an onBuild hook that drops content where cargo would.
func buildOutputs(t *testing.T, root string, id platform.Identifier, content string) func(Command) {
	return func(Command) {
		path := Project{Root: root}.OutputPath(id)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0755))
	}
}

func newTestDownloader(opts ...DownloaderOption) *Downloader {
	d := NewDownloader(opts...)
	d.backoff = func(int) time.Duration { return 0 }
	return d
}

// tempFiles lists leftover install temp files in dir.
func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	return matches
}
