package binary

import (
	"errors"
	"fmt"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

var (
	// ErrAcquisitionSkipped is matched by skip reasons: no build manifest, no
	// usable toolchain, or both strategies disabled.
	ErrAcquisitionSkipped = errors.New("acquisition skipped")

	// ErrBinaryNotFound is matched by every NotFoundError.
	ErrBinaryNotFound = errors.New("binary not found")

	errManifestMissing = fmt.Errorf("%w: build manifest not found", ErrAcquisitionSkipped)
	errNoToolchain     = fmt.Errorf("%w: build toolchain not available", ErrAcquisitionSkipped)
	errStrategiesOff   = fmt.Errorf("%w: download and build are both disabled", ErrAcquisitionSkipped)
)

// AcquisitionFailedError is a fatal provisioning failure: the toolchain ran
// and failed, or it succeeded without producing the expected output.
type AcquisitionFailedError struct {
	// ExitCode is the toolchain's exit status, or 1 when the toolchain
	// succeeded but the output was missing.
	ExitCode int
	Err      error
}

func (e *AcquisitionFailedError) Error() string {
	return fmt.Sprintf("acquisition failed: %v", e.Err)
}

func (e *AcquisitionFailedError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing or unusable binary at run time.
type NotFoundError struct {
	Identifier    platform.Identifier
	Path          string
	NotExecutable bool
}

func (e *NotFoundError) Error() string {
	if e.NotExecutable {
		return fmt.Sprintf("binary for %s is not executable:\n  %s\nrun: chmod +x %s",
			e.Identifier, e.Path, e.Path)
	}
	return fmt.Sprintf("no binary found for %s. Expected to find:\n  %s\n"+
		"Ensure Rust is installed so the binary can be built for your platform, or install a pre-built binary at that path.",
		e.Identifier, e.Path)
}

// Is lets errors.Is match ErrBinaryNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrBinaryNotFound
}

// VerificationError reports downloaded content that failed its integrity
// check. The content never reaches Path.
type VerificationError struct {
	Path string
	Err  error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify %s: %v", e.Path, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// statusError reports a non-2xx HTTP response.
type statusError struct {
	URL  string
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// retryable reports whether another attempt could succeed.
func (e *statusError) retryable() bool {
	return e.Code >= 500 || e.Code == 429
}
