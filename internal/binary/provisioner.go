package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/smooai/log-viewer-launcher/internal/platform"
)

// Provisioner runs the acquisition strategies in order (download, then
// build) and installs the first result at the canonical artifact path.
type Provisioner struct {
	layout       Layout
	release      Release
	timeout      time.Duration
	downloader   *Downloader
	verifier     *Verifier
	builder      *Builder
	skipDownload bool
	skipBuild    bool
	logger       zerolog.Logger
}

// Config holds configuration for the provisioner
type Config struct {
	// PackageRoot is the installed package tree the artifact is written into.
	PackageRoot string
	// Release selects the remote asset (default: DefaultRelease()).
	Release Release
	// Timeout bounds the download step (default: DefaultTimeout).
	Timeout time.Duration
	// Retries overrides DefaultRetries when the default downloader is used.
	Retries *int
	// Downloader overrides the default downloader.
	Downloader *Downloader
	// Verifier, when set, requires a valid detached signature for downloads.
	Verifier *Verifier

	// Project is the source tree for the build fallback. Required unless
	// SkipBuild is set.
	Project   Project
	Toolchain string
	Runner    CommandRunner
	// BuildStdout and BuildStderr receive the toolchain's output (default:
	// the process streams).
	BuildStdout io.Writer
	BuildStderr io.Writer

	SkipDownload bool
	SkipBuild    bool

	Logger *zerolog.Logger
}

// NewProvisioner creates a provisioner.
func NewProvisioner(config Config) (*Provisioner, error) {
	if config.PackageRoot == "" {
		return nil, fmt.Errorf("package root is required")
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	p := &Provisioner{
		layout:       Layout{PackageRoot: config.PackageRoot},
		release:      config.Release,
		timeout:      config.Timeout,
		downloader:   config.Downloader,
		verifier:     config.Verifier,
		skipDownload: config.SkipDownload,
		skipBuild:    config.SkipBuild,
		logger:       logger,
	}

	if p.release == (Release{}) {
		p.release = DefaultRelease()
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.downloader == nil {
		opts := []DownloaderOption{WithDownloadLogger(logger)}
		if config.Retries != nil {
			opts = append(opts, WithRetries(*config.Retries))
		}
		p.downloader = NewDownloader(opts...)
	}

	if !p.skipBuild {
		builder, err := NewBuilder(BuilderConfig{
			Project:   config.Project,
			Toolchain: config.Toolchain,
			Runner:    config.Runner,
			Stdout:    config.BuildStdout,
			Stderr:    config.BuildStderr,
			Logger:    &logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create builder: %w", err)
		}
		p.builder = builder
	}

	return p, nil
}

// Path returns the canonical artifact path for id.
func (p *Provisioner) Path(id platform.Identifier) string {
	return p.layout.Path(id)
}

// EnsureBinary makes sure a fresh artifact for id exists at the canonical
// path.
//
// A failed download is logged and falls through to the build. When the build
// cannot run (no manifest, no toolchain, or disabled) the result is
// OutcomeSkipped with a nil error. A failing build is an
// *AcquisitionFailedError.
func (p *Provisioner) EnsureBinary(ctx context.Context, id platform.Identifier) (*Result, error) {
	result := &Result{}
	dest := p.layout.Path(id)

	if !p.skipDownload {
		attempt, artifact := p.download(ctx, id, dest)
		result.Attempts = append(result.Attempts, attempt)

		if artifact != nil {
			result.Outcome = OutcomeInstalled
			result.Artifact = artifact
			return result, nil
		}

		// Interrupted by the caller, not a download failure
		if ctx.Err() != nil {
			return result, fmt.Errorf("provisioning cancelled: %w", ctx.Err())
		}
	}

	if p.skipBuild {
		reason := fmt.Errorf("%w: build disabled", ErrAcquisitionSkipped)
		if p.skipDownload {
			reason = errStrategiesOff
		}
		attempt := Attempt{Strategy: StrategyBuild, Skipped: true, Err: reason}
		result.Attempts = append(result.Attempts, attempt)
		return p.skip(result, attempt), nil
	}

	attempt, artifact, err := p.build(ctx, id, dest)
	result.Attempts = append(result.Attempts, attempt)
	if err != nil {
		if errors.Is(err, ErrAcquisitionSkipped) {
			return p.skip(result, attempt), nil
		}
		return result, err
	}

	result.Outcome = OutcomeInstalled
	result.Artifact = artifact
	return result, nil
}

// download is the remote strategy. Every failure is soft: it is recorded in
// the attempt and logged, never returned.
func (p *Provisioner) download(ctx context.Context, id platform.Identifier, dest string) (Attempt, *Artifact) {
	start := time.Now()
	attempt := Attempt{Strategy: StrategyDownload}

	finish := func(err error) (Attempt, *Artifact) {
		attempt.Err = err
		attempt.Duration = time.Since(start)
		p.logger.Warn().
			Str("strategy", attempt.Strategy.String()).
			Str("url", attempt.Source).
			Dur("duration", attempt.Duration).
			Err(err).
			Msg("Download failed")
		return attempt, nil
	}

	url, err := p.release.AssetURL(id)
	if err != nil {
		return finish(fmt.Errorf("construct asset url: %w", err))
	}
	attempt.Source = url

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var check func(string) error
	if p.verifier != nil {
		sigURL, err := p.release.SignatureURL(id)
		if err != nil {
			return finish(fmt.Errorf("construct signature url: %w", err))
		}
		signature, err := p.downloader.Fetch(ctx, sigURL, maxSignatureBytes)
		if err != nil {
			return finish(fmt.Errorf("download signature: %w", err))
		}
		check = func(tmpPath string) error {
			return p.verifier.VerifyFile(tmpPath, signature)
		}
	}

	p.logger.Info().Str("url", url).Str("path", dest).Msg("Downloading log-viewer binary")

	executable := !id.IsWindows()
	digest, err := p.downloader.DownloadToFile(ctx, url, dest, executable, check)
	if err != nil {
		return finish(fmt.Errorf("download binary: %w", err))
	}

	attempt.Duration = time.Since(start)
	p.logger.Info().
		Str("strategy", attempt.Strategy.String()).
		Str("path", dest).
		Str("sha256", digest).
		Dur("duration", attempt.Duration).
		Msg("Installed downloaded binary")

	return attempt, &Artifact{Identifier: id, Path: dest, Executable: executable, SHA256: digest}
}

// build is the local fallback strategy.
func (p *Provisioner) build(ctx context.Context, id platform.Identifier, dest string) (Attempt, *Artifact, error) {
	start := time.Now()
	attempt := Attempt{Strategy: StrategyBuild, Source: p.builder.project.ManifestPath()}

	fail := func(err error) (Attempt, *Artifact, error) {
		attempt.Err = err
		attempt.Duration = time.Since(start)
		if errors.Is(err, ErrAcquisitionSkipped) {
			attempt.Skipped = true
		}
		return attempt, nil, err
	}

	if err := p.builder.Ready(ctx); err != nil {
		return fail(err)
	}

	output, err := p.builder.Build(ctx, id)
	if err != nil {
		p.logger.Error().Err(err).Msg("Local build failed")
		return fail(err)
	}

	executable := !id.IsWindows()
	digest, err := copyFile(output, dest, executable)
	if err != nil {
		return fail(&AcquisitionFailedError{
			ExitCode: 1,
			Err:      fmt.Errorf("install %s: %w", dest, err),
		})
	}

	attempt.Duration = time.Since(start)
	p.logger.Info().
		Str("strategy", attempt.Strategy.String()).
		Str("source", output).
		Str("path", dest).
		Str("sha256", digest).
		Dur("duration", attempt.Duration).
		Msg("Installed locally built binary")

	return attempt, &Artifact{Identifier: id, Path: dest, Executable: executable, SHA256: digest}, nil
}

// skip finalizes a skipped result. Nothing is written, so an artifact from an
// earlier run stays in place.
func (p *Provisioner) skip(result *Result, attempt Attempt) *Result {
	result.Outcome = OutcomeSkipped
	result.SkipReason = attempt.Err

	p.logger.Warn().Err(attempt.Err).Msg("Skipping log-viewer provisioning")
	return result
}
