package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// installFile streams r into destPath through a temp file in the same
// directory. check, when non-nil, runs against the complete temp file before
// it replaces destPath. The temp file is removed on every failure, so
// destPath either keeps its previous content or holds the full new content.
func installFile(r io.Reader, destPath string, executable bool, check func(tmpPath string) error) (string, error) {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(destDir, "."+filepath.Base(destPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Track whether we need to clean up the temp file
	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmpFile, hasher), r); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if check != nil {
		if err := check(tmpPath); err != nil {
			return "", &VerificationError{Path: destPath, Err: err}
		}
	}

	mode := os.FileMode(0644)
	if executable {
		mode = 0755
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return "", fmt.Errorf("set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// copyFile installs the file at srcPath over destPath.
func copyFile(srcPath, destPath string, executable bool) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	return installFile(src, destPath, executable, nil)
}

// checkOutput reports why path is not a usable build output, or nil.
func checkOutput(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("expected binary at %s but none was found", path)
	case err != nil:
		return fmt.Errorf("stat build output: %w", err)
	case info.IsDir():
		return fmt.Errorf("expected binary at %s but found a directory", path)
	case info.Size() == 0:
		return fmt.Errorf("binary at %s is empty", path)
	}
	return nil
}
