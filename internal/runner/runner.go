// Package runner executes a single test executable and streams its merged
// stdout and stderr line by line.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// SignalTimeout is how long a test gets to exit after being signalled
// before its process group is killed.
const SignalTimeout = 2 * time.Second

// LineFunc receives each output line without its line terminator.
type LineFunc func(line string)

// Outcome describes how a test process ended.
type Outcome struct {
	Path     string
	ExitCode int
	// Signal is the signal number that terminated the process, or 0.
	Signal int
	// Err is set when the executable could not be launched at all.
	Err         error
	TimedOut    bool
	Timeout     time.Duration
	Interrupted bool
	Lines       int
}

// Crashed reports whether the outcome counts as a crash: a launch
// failure, a timeout, or termination by a signal the harness did not send
// on the user's behalf. Ordinary non-zero exit codes are not crashes.
func (o Outcome) Crashed() bool {
	return o.Err != nil || o.TimedOut || (o.Signal != 0 && !o.Interrupted)
}

// Message returns the inline crash report, or "" when the outcome is not a
// crash.
func (o Outcome) Message() string {
	switch {
	case o.Err != nil && errors.Is(o.Err, fs.ErrNotExist):
		return fmt.Sprintf("Test '%s' not found.", o.Path)
	case o.Err != nil:
		return fmt.Sprintf("Got an exception running '%s': %s ", o.Path, reason(o.Err))
	case o.TimedOut:
		return fmt.Sprintf("Error: '%s' timed out after %s", o.Path, o.Timeout)
	case o.Signal != 0 && !o.Interrupted:
		return fmt.Sprintf("Error: '%s' exited with signal %d", o.Path, o.Signal)
	}
	return ""
}

// reason strips the operation and path from launch errors so only the OS
// explanation remains.
func reason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

// Options configures a Runner.
type Options struct {
	// Timeout bounds each test's run time. Zero means no limit.
	Timeout time.Duration
}

// Runner launches test executables one at a time.
type Runner struct {
	opts   Options
	logger *log.Logger
}

// New creates a Runner.
func New(opts Options, logger *log.Logger) *Runner {
	return &Runner{opts: opts, logger: logger}
}

// Run executes path with no arguments and calls onLine for every line of
// combined output as it arrives. It blocks until the output is drained and
// the process has exited.
//
// Cancelling ctx forwards an interrupt to the test's process group and
// marks the outcome Interrupted; exceeding the configured timeout does the
// same but marks it TimedOut.
func (r *Runner) Run(ctx context.Context, path string, onLine LineFunc) Outcome {
	out := Outcome{Path: path, Timeout: r.opts.Timeout}

	runCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	cmd := exec.Command(path) // #nosec G204 - path comes from discovery
	cmd.Env = os.Environ()
	setProcessGroup(cmd)

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		out.Err = err
		return out
	}
	// Same *os.File for both streams keeps the child's write order.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		r.logger.Debug("launch failed", "path", path, "err", err)
		out.Err = err
		return out
	}

	cmdDone := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		select {
		case <-cmdDone:
		case <-runCtx.Done():
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				out.TimedOut = true
			} else {
				out.Interrupted = true
			}
			r.logger.Debug("stopping test", "path", path, "pid", cmd.Process.Pid, "cause", runCtx.Err())
			if err := killProcessGroup(cmd, os.Interrupt); err != nil {
				r.logger.Debug("signal failed", "path", path, "err", err)
			}
			select {
			case <-cmdDone:
			case <-time.After(SignalTimeout):
				_ = killProcessGroupWithSIGKILL(cmd)
			}
		}
	}()

	lines, readErr := readLines(pipe, onLine)
	waitErr := cmd.Wait()
	close(cmdDone)
	<-watcherDone

	out.Lines = lines
	if readErr != nil {
		r.logger.Warn("reading test output", "path", path, "err", readErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		r.logger.Warn("waiting for test", "path", path, "err", waitErr)
	}
	if cmd.ProcessState != nil {
		out.ExitCode, out.Signal = exitStatus(cmd.ProcessState)
	}
	r.logger.Debug("test exited", "path", path, "code", out.ExitCode, "signal", out.Signal, "lines", out.Lines)
	return out
}

// readLines delivers lines from rd to onLine until EOF. Lines of any
// length are accepted.
func readLines(rd io.Reader, onLine LineFunc) (int, error) {
	br := bufio.NewReader(rd)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			onLine(trimEOL(line))
			n++
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return n, nil
			}
			return n, err
		}
	}
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
