package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

const (
	// DefaultToolchain is the build tool invoked for the local fallback.
	DefaultToolchain = "cargo"
	// ManifestFile is the build manifest name inside the project's log-viewer directory.
	ManifestFile = "Cargo.toml"
)

// Command is one toolchain invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner runs toolchain commands. The returned exit code is only
// meaningful when err is nil; err reports a failure to start the command.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
}

// OSRunner executes commands on the host.
type OSRunner struct{}

// Run executes cmd with its streams wired as given and reports the exit code.
func (OSRunner) Run(ctx context.Context, c Command) (int, error) {
	// #nosec G204 -- the toolchain name comes from provisioning config.
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("run %s: %w", c.Name, err)
	}
	return 0, nil
}

// Project describes the source tree the fallback builds from.
type Project struct {
	Root string
}

// ManifestPath returns <root>/log-viewer/Cargo.toml.
func (p Project) ManifestPath() string {
	return filepath.Join(p.Root, "log-viewer", ManifestFile)
}

// OutputPath returns where a release build leaves the binary for id:
// <root>/log-viewer/target/release/<binary-name>.
func (p Project) OutputPath(id platform.Identifier) string {
	return filepath.Join(p.Root, "log-viewer", "target", "release", FileName(id))
}

// Builder compiles the log viewer from source.
type Builder struct {
	project   Project
	toolchain string
	runner    CommandRunner
	stdout    io.Writer
	stderr    io.Writer
	logger    zerolog.Logger
}

// BuilderConfig holds configuration for a Builder.
type BuilderConfig struct {
	Project   Project
	Toolchain string        // default: cargo
	Runner    CommandRunner // default: OSRunner
	// Stdout and Stderr receive the build's output (default: os.Stdout/os.Stderr).
	Stdout io.Writer
	Stderr io.Writer
	Logger *zerolog.Logger
}

// NewBuilder creates a builder.
func NewBuilder(config BuilderConfig) (*Builder, error) {
	if config.Project.Root == "" {
		return nil, fmt.Errorf("project root is required")
	}

	b := &Builder{
		project:   config.Project,
		toolchain: config.Toolchain,
		runner:    config.Runner,
		stdout:    config.Stdout,
		stderr:    config.Stderr,
		logger:    zerolog.Nop(),
	}
	if b.toolchain == "" {
		b.toolchain = DefaultToolchain
	}
	if b.runner == nil {
		b.runner = OSRunner{}
	}
	if b.stdout == nil {
		b.stdout = os.Stdout
	}
	if b.stderr == nil {
		b.stderr = os.Stderr
	}
	if config.Logger != nil {
		b.logger = *config.Logger
	}
	return b, nil
}

// Ready reports whether a build can be attempted. It returns an error
// matching ErrAcquisitionSkipped when the manifest is absent or the
// toolchain probe does not exit zero.
func (b *Builder) Ready(ctx context.Context) error {
	manifest := b.project.ManifestPath()
	info, err := os.Stat(manifest)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", errManifestMissing, manifest)
	}

	code, err := b.runner.Run(ctx, Command{
		Name:   b.toolchain,
		Args:   []string{"--version"},
		Dir:    b.project.Root,
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errNoToolchain, b.toolchain, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: %s --version exited %d", errNoToolchain, b.toolchain, code)
	}

	return nil
}

// Build runs a release build and returns the path of the produced binary.
// A non-zero build exit or a missing output is an *AcquisitionFailedError.
func (b *Builder) Build(ctx context.Context, id platform.Identifier) (string, error) {
	manifest := b.project.ManifestPath()
	args := []string{"build", "--release", "--manifest-path", manifest}

	b.logger.Info().Str("toolchain", b.toolchain).Strs("args", args).Str("dir", b.project.Root).Msg("Building log-viewer binary")

	code, err := b.runner.Run(ctx, Command{
		Name:   b.toolchain,
		Args:   args,
		Dir:    b.project.Root,
		Stdout: b.stdout,
		Stderr: b.stderr,
	})
	if err != nil {
		return "", &AcquisitionFailedError{ExitCode: 1, Err: err}
	}
	if code != 0 {
		exitCode := code
		if exitCode < 0 {
			// Terminated by a signal
			exitCode = 1
		}
		return "", &AcquisitionFailedError{
			ExitCode: exitCode,
			Err:      fmt.Errorf("%s build exited with status %d", b.toolchain, code),
		}
	}

	output := b.project.OutputPath(id)
	if err := checkOutput(output); err != nil {
		return "", &AcquisitionFailedError{ExitCode: 1, Err: err}
	}

	return output, nil
}
