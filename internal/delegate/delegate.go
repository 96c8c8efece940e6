// Package delegate runs the log viewer as a child process and mirrors its
// exit status back to the caller.
//
// The child receives the argument vector unmodified (no shell) and shares
// the caller's standard streams. While it runs, interrupt and termination
// signals delivered to the parent are forwarded to it, and the parent
// reports the conventional 128+signal exit code.
package delegate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// DefaultGracePeriod is how long a child may take to exit after a forwarded
// signal before it is killed.
const DefaultGracePeriod = 2 * time.Second

// signalSettle is how long a clean exit waits for a signal still in
// flight, as when a child traps SIGINT and returns 0 before the parent's
// notification arrives.
const signalSettle = 50 * time.Millisecond

// forwardedSignals are relayed to the child while it runs.
var forwardedSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Delegate launches a binary and waits for it.
type Delegate struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	signals <-chan os.Signal
	grace   time.Duration
	settle  time.Duration
	logger  zerolog.Logger
}

// Option configures a Delegate.
type Option func(*Delegate)

// WithStreams replaces the child's standard streams. Nil values keep the
// process defaults.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(d *Delegate) {
		if stdin != nil {
			d.stdin = stdin
		}
		if stdout != nil {
			d.stdout = stdout
		}
		if stderr != nil {
			d.stderr = stderr
		}
	}
}

// WithSignals replaces the OS signal subscription with ch.
func WithSignals(ch <-chan os.Signal) Option {
	return func(d *Delegate) {
		d.signals = ch
	}
}

// WithGracePeriod sets how long a signalled child may run before it is killed.
func WithGracePeriod(grace time.Duration) Option {
	return func(d *Delegate) {
		if grace > 0 {
			d.grace = grace
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Delegate) {
		d.logger = l
	}
}

// New creates a Delegate wired to the current process's streams.
func New(opts ...Option) *Delegate {
	d := &Delegate{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		grace:  DefaultGracePeriod,
		settle: signalSettle,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run starts path with args and blocks until it exits, returning the exit
// code the parent should use.
//
// A child that exits normally yields its own code and a nil error. A
// child killed by a signal yields 128+signal. A signal received by the
// parent while waiting yields 128+signal (130 for SIGINT) even if the
// child exited first. A spawn failure yields 1 and a *LaunchError.
// Cancelling ctx kills the child and returns 1 with ctx's error.
//
// A terminal Ctrl-C reaches the whole foreground process group, so the
// child may see SIGINT twice: once from the tty and once forwarded. Viewers
// must treat a repeated SIGINT the same as the first.
func (d *Delegate) Run(ctx context.Context, path string, args []string) (int, error) {
	sigCh := d.signals
	if sigCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, forwardedSignals...)
		defer signal.Stop(ch)
		sigCh = ch
	}

	// #nosec G204 -- path is the located log viewer binary.
	cmd := exec.Command(path, args...)
	cmd.Stdin = d.stdin
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr

	d.logger.Debug().Str("path", path).Strs("args", args).Msg("Launching log viewer")

	if err := cmd.Start(); err != nil {
		return 1, &LaunchError{Path: path, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		// A signal that raced the child's exit still decides the code
		code, waitErr := exitStatus(path, err)
		if sig, ok := d.pendingSignal(sigCh, code == 0 && waitErr == nil); ok {
			d.logger.Debug().Str("signal", sig.String()).Msg("Signal received as child exited")
			return signalExitCode(sig), nil
		}
		return code, waitErr

	case sig := <-sigCh:
		d.logger.Debug().Str("signal", sig.String()).Int("pid", cmd.Process.Pid).Msg("Forwarding signal to child")
		d.terminate(cmd, done, sig)
		return signalExitCode(sig), nil

	case <-ctx.Done():
		d.terminate(cmd, done, os.Kill)
		return 1, ctx.Err()
	}
}

// pendingSignal reports a signal already queued on sigCh. When settle is
// set it also waits briefly for one still being delivered.
func (d *Delegate) pendingSignal(sigCh <-chan os.Signal, settle bool) (os.Signal, bool) {
	if !settle {
		select {
		case sig := <-sigCh:
			return sig, true
		default:
			return nil, false
		}
	}
	select {
	case sig := <-sigCh:
		return sig, true
	case <-time.After(d.settle):
		return nil, false
	}
}

// terminate forwards sig and waits up to the grace period before killing.
func (d *Delegate) terminate(cmd *exec.Cmd, done <-chan error, sig os.Signal) {
	if sig != os.Kill {
		if err := cmd.Process.Signal(sig); err != nil {
			// Not deliverable on this platform, or the child is gone
			d.logger.Debug().Err(err).Msg("Signal forward failed")
			sig = os.Kill
		}
	}

	if sig != os.Kill {
		select {
		case <-done:
			return
		case <-time.After(d.grace):
			d.logger.Debug().Dur("grace", d.grace).Msg("Child did not exit, killing")
		}
	}

	_ = cmd.Process.Kill()
	<-done
}

// exitStatus translates cmd.Wait's result.
func exitStatus(path string, err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}

	return 1, fmt.Errorf("wait for %s: %w", path, err)
}

// signalExitCode returns the shell convention for death by sig.
func signalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
