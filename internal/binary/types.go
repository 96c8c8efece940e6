package binary

import (
	"time"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

// BinaryName is the base name of the log viewer executable.
const BinaryName = "smooai-log-viewer"

// FileName returns the executable file name for id: BinaryName plus ".exe"
// on Windows.
func FileName(id platform.Identifier) string {
	return BinaryName + id.ExecutableSuffix()
}

// Strategy names one acquisition strategy.
type Strategy string

const (
	// StrategyDownload fetches a prebuilt release asset.
	StrategyDownload Strategy = "download"
	// StrategyBuild compiles the binary from the project manifest.
	StrategyBuild Strategy = "build"
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	return string(s)
}

// Outcome is the final state of a provisioning run.
type Outcome int

const (
	// OutcomeInstalled means an artifact was written at the canonical path.
	OutcomeInstalled Outcome = iota
	// OutcomeSkipped means no strategy could run; nothing was written.
	OutcomeSkipped
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeInstalled:
		return "installed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Artifact is a log viewer binary on disk.
type Artifact struct {
	Identifier platform.Identifier
	Path       string
	Executable bool
	// SHA256 is the hex digest of the installed file. Empty when the
	// artifact was located rather than installed.
	SHA256 string
}

// Attempt records the outcome of one strategy. Attempts are logged and
// reported but never persisted.
type Attempt struct {
	Strategy Strategy
	Source   string // URL or local path the strategy read from
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Succeeded reports whether the strategy produced the artifact.
func (a Attempt) Succeeded() bool {
	return a.Err == nil && !a.Skipped
}

// Result is returned by Provisioner.EnsureBinary.
type Result struct {
	Outcome  Outcome
	Artifact *Artifact // nil when skipped
	Attempts []Attempt
	// SkipReason explains a skipped outcome and matches ErrAcquisitionSkipped.
	SkipReason error
}
