// Package runner executes external commands (cargo, git) behind a narrow
// interface so callers can substitute a fake in tests.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/conn-castle/cargo-install-upgrade/internal/logging"
	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// Runner runs commands given as argv lists.
type Runner interface {
	// Run executes argv and returns nil when it exits with status 0.
	Run(ctx context.Context, argv []string) error
	// Output executes argv and returns its captured stdout.
	Output(ctx context.Context, argv []string) (string, error)
}

// ErrProcessFailure is matched by every ProcessError.
var ErrProcessFailure = errors.New("process failure")

// ProcessError reports a command that could not start or exited non-zero.
// ExitCode is -1 when the process never ran.
type ProcessError struct {
	Argv     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	command := strings.Join(e.Argv, " ")
	switch {
	case e.ExitCode < 0:
		return fmt.Sprintf(messages.RunnerCommandStartErrFmt, command, e.Err)
	case e.Stderr != "":
		return fmt.Sprintf(messages.RunnerCommandStderrFmt, command, e.ExitCode, e.Stderr)
	default:
		return fmt.Sprintf(messages.RunnerCommandExitFmt, command, e.ExitCode)
	}
}

// Unwrap returns the underlying exec error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrProcessFailure.
func (e *ProcessError) Is(target error) bool {
	return target == ErrProcessFailure
}

// Exec runs commands with os/exec.
//
// When Stream is set, Run forwards the child's stdout and stderr to Stdout and
// Stderr; otherwise they are discarded. Output always captures stdout and keeps
// stderr for the error message.
type Exec struct {
	Stream bool
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

var execCommandContext = exec.CommandContext

// Run executes argv and waits for it to exit.
func (r *Exec) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New(messages.RunnerEmptyArgv)
	}
	r.logger().Info("run command", "argv", strings.Join(argv, " "))
	cmd := execCommandContext(ctx, argv[0], argv[1:]...)
	if r.Stream {
		cmd.Stdout = writerOrDiscard(r.Stdout)
		cmd.Stderr = writerOrDiscard(r.Stderr)
	}
	return wrapExecError(argv, cmd.Run(), "")
}

// Output executes argv and returns everything it wrote to stdout.
func (r *Exec) Output(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New(messages.RunnerEmptyArgv)
	}
	r.logger().Info("capture command", "argv", strings.Join(argv, " "))
	cmd := execCommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	r.logger().Debug("command output", "argv", strings.Join(argv, " "), "stdout", stdout.String())
	if err != nil {
		return stdout.String(), wrapExecError(argv, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func (r *Exec) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}

func wrapExecError(argv []string, err error, stderr string) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProcessError{Argv: argv, ExitCode: exitErr.ExitCode(), Stderr: stderr, Err: err}
	}
	return &ProcessError{Argv: argv, ExitCode: -1, Stderr: stderr, Err: err}
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
