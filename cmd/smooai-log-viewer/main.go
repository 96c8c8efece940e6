// Command smooai-log-viewer runs the platform-specific log viewer binary
// installed alongside it, forwarding arguments, standard streams, signals
// and the exit status.
//
// It defines no flags of its own; every argument belongs to the viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/smooai/log-viewer-launcher/internal/binary"
	"github.com/smooai/log-viewer-launcher/internal/config"
	"github.com/smooai/log-viewer-launcher/internal/delegate"
	"github.com/smooai/log-viewer-launcher/internal/logging"
	"github.com/smooai/log-viewer-launcher/internal/platform"
)

const prefix = "[smooai-log-viewer]"

func main() {
	l := &launcher{
		detector:   platform.NewDetector(),
		executable: os.Executable,
	}
	os.Exit(l.run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// launcher holds the wrapper's host seams.
type launcher struct {
	detector     platform.Detector
	executable   func() (string, error)
	delegateOpts []delegate.Option
}

// run resolves the binary and delegates to it. The return value is the
// process exit code.
func (l *launcher) run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := logging.SetupWrapperLogger(config.LogLevel(), stderr); err != nil {
		fmt.Fprintf(stderr, "%s %v, using %s\n", prefix, err, config.DefaultLogLevel)
	}
	logger := logging.GetLogger("wrapper")

	id, err := platform.Current(ctx, l.detector)
	if err != nil {
		return fail(stderr, err)
	}

	packageRoot, err := config.PackageRoot(l.executable)
	if err != nil {
		return fail(stderr, err)
	}
	logger.Debug().Str("platform", id.Key()).Str("package_root", packageRoot).Msg("Resolving log viewer")

	artifact, err := binary.NewLocator(packageRoot).Locate(id)
	if err != nil {
		return fail(stderr, err)
	}

	opts := []delegate.Option{
		delegate.WithStreams(stdin, stdout, stderr),
		delegate.WithLogger(logging.GetLogger("delegate")),
	}
	d := delegate.New(append(opts, l.delegateOpts...)...)

	code, err := d.Run(ctx, artifact.Path, args)
	if err != nil {
		if errors.Is(err, delegate.ErrLaunch) {
			fmt.Fprintf(stderr, "%s Failed to launch the log viewer binary: %v\n", prefix, err)
			return 1
		}
		return fail(stderr, err)
	}

	logger.Debug().Int("exit_code", code).Msg("Log viewer exited")
	return code
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "%s %v\n", prefix, err)
	return 1
}
