package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smooai/log-viewer-launcher/internal/binary"
	"github.com/smooai/log-viewer-launcher/internal/config"
	"github.com/smooai/log-viewer-launcher/internal/logging"
	"github.com/smooai/log-viewer-launcher/internal/platform"
)

const msgPrefix = "bundle-log-viewer:"

// deps are the host seams the command reaches through.
type deps struct {
	detector platform.Detector
	runner   binary.CommandRunner
	getwd    func() (string, error)
}

func defaultDeps() deps {
	return deps{
		detector: platform.NewDetector(),
		runner:   binary.OSRunner{},
		getwd:    os.Getwd,
	}
}

type options struct {
	packageRoot string
	projectRoot string
	configPath  string
	repo        string
	version     string
	baseURL     string
	timeout     time.Duration
	verbosity   int
}

// NewRootCmd builds the bundle-log-viewer command.
func NewRootCmd(d deps) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bundle-log-viewer",
		Short: "Install the smooai-log-viewer binary into a package",
		Long: `bundle-log-viewer places the smooai-log-viewer binary for the current
platform at <package-root>/log-viewer/<os>-<arch>/.

It first downloads the matching release asset. If that fails it builds
<project-root>/log-viewer with cargo. When neither is possible it exits
successfully without installing anything.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd, d, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.packageRoot, "package-root", "", "package tree to install into (default: current directory)")
	flags.StringVar(&opts.projectRoot, "project-root", "", "source tree holding log-viewer/Cargo.toml (default: parent of package root)")
	flags.StringVar(&opts.configPath, "config", "", "provision.lua to use instead of searching for one")
	flags.StringVar(&opts.repo, "repo", "", "release repository as owner/name")
	flags.StringVar(&opts.version, "version", "", "release version to download (default: latest)")
	flags.StringVar(&opts.baseURL, "base-url", binary.DefaultBaseURL, "artifact host")
	flags.DurationVar(&opts.timeout, "timeout", binary.DefaultTimeout, "download timeout")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	return cmd
}

// execute runs cmd and maps the outcome to an exit code.
func execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", msgPrefix, err)
	return exitCode(err)
}

// exitCode returns the toolchain's status for a failed build and 1 for
// anything else.
func exitCode(err error) int {
	var acqErr *binary.AcquisitionFailedError
	if errors.As(err, &acqErr) && acqErr.ExitCode > 0 {
		return acqErr.ExitCode
	}
	return 1
}

func runBundle(cmd *cobra.Command, d deps, opts *options) error {
	ctx := cmd.Context()
	logger := logging.GetLogger("provision")
	defer logging.LogOperationStart(logger, "bundle")()

	id, err := platform.Current(ctx, d.detector)
	if err != nil {
		return err
	}

	packageRoot, projectRoot, err := resolveRoots(d, opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx, config.NewParser(id), opts.configPath, projectRoot)
	if err != nil {
		return errors.New(config.FormatError(err, opts.verbosity >= 2))
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	release, err := cfg.Release()
	if err != nil {
		return err
	}
	release.BaseURL = opts.baseURL

	var verifier *binary.Verifier
	if cfg.Keyring != "" {
		verifier, err = binary.LoadVerifier(cfg.Keyring)
		if err != nil {
			return fmt.Errorf("load keyring %s: %w", cfg.Keyring, err)
		}
	}

	logger.Info().
		Str("platform", id.Key()).
		Str("package_root", packageRoot).
		Str("project_root", projectRoot).
		Str("config", cfg.Source).
		Msg("Provisioning log viewer")

	retries := cfg.Retries
	p, err := binary.NewProvisioner(binary.Config{
		PackageRoot:  packageRoot,
		Release:      release,
		Timeout:      cfg.Timeout,
		Retries:      &retries,
		Verifier:     verifier,
		Project:      binary.Project{Root: projectRoot},
		Toolchain:    cfg.Toolchain,
		Runner:       d.runner,
		BuildStdout:  cmd.OutOrStdout(),
		BuildStderr:  cmd.ErrOrStderr(),
		SkipDownload: cfg.SkipDownload,
		SkipBuild:    cfg.SkipBuild,
		Logger:       &logger,
	})
	if err != nil {
		return err
	}

	result, err := p.EnsureBinary(ctx, id)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case binary.OutcomeSkipped:
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v, skipping\n", msgPrefix, result.SkipReason)
	case binary.OutcomeInstalled:
		fmt.Fprintf(cmd.OutOrStdout(), "%s packaged %s\n", msgPrefix, result.Artifact.Path)
	}

	return nil
}

// resolveRoots applies the root defaults: package root is the working
// directory and project root its parent.
func resolveRoots(d deps, opts *options) (string, string, error) {
	packageRoot := opts.packageRoot
	if packageRoot == "" {
		wd, err := d.getwd()
		if err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
		packageRoot = wd
	}
	packageRoot, err := filepath.Abs(packageRoot)
	if err != nil {
		return "", "", fmt.Errorf("resolve package root: %w", err)
	}

	projectRoot := opts.projectRoot
	if projectRoot == "" {
		projectRoot = filepath.Dir(packageRoot)
	}
	projectRoot, err = filepath.Abs(projectRoot)
	if err != nil {
		return "", "", fmt.Errorf("resolve project root: %w", err)
	}

	return packageRoot, projectRoot, nil
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, cfg *config.ProvisionConfig, opts *options) error {
	flags := cmd.Flags()
	if flags.Changed("repo") {
		cfg.Repo = opts.repo
	}
	if flags.Changed("version") {
		cfg.Version = opts.version
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid provisioning options: %w", err)
	}
	return nil
}
