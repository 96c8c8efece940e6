package binary

import (
	"os"
	"path/filepath"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

// Layout maps identifiers to artifact paths inside an installed package.
type Layout struct {
	PackageRoot string
}

// Dir returns <package-root>/log-viewer/<os>-<arch>.
func (l Layout) Dir(id platform.Identifier) string {
	return filepath.Join(l.PackageRoot, "log-viewer", id.Key())
}

// Path returns the canonical artifact path for id.
func (l Layout) Path(id platform.Identifier) string {
	return filepath.Join(l.Dir(id), FileName(id))
}

// Locator resolves the installed binary at run time. It never provisions.
type Locator struct {
	layout Layout
}

// NewLocator creates a locator rooted at packageRoot.
func NewLocator(packageRoot string) *Locator {
	return &Locator{layout: Layout{PackageRoot: packageRoot}}
}

// Locate returns the artifact for id, or a *NotFoundError naming the
// expected path when it is missing, not a regular file, or (off Windows)
// lacks an executable bit.
func (l *Locator) Locate(id platform.Identifier) (*Artifact, error) {
	path := l.layout.Path(id)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &NotFoundError{Identifier: id, Path: path}
	}

	if !id.IsWindows() && info.Mode().Perm()&0111 == 0 {
		return nil, &NotFoundError{Identifier: id, Path: path, NotExecutable: true}
	}

	return &Artifact{
		Identifier: id,
		Path:       path,
		Executable: true,
	}, nil
}
