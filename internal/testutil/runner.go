package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/conn-castle/cargo-install-upgrade/internal/runner"
)

// Call records one command issued to a FakeRunner.
type Call struct {
	Argv    []string
	Capture bool
}

// String joins the argv with spaces.
func (c Call) String() string {
	return strings.Join(c.Argv, " ")
}

// FakeRunner implements runner.Runner without starting processes.
//
// Fallback behavior: Run succeeds and Output returns an empty string unless
// RunFunc or OutputFunc is set.
type FakeRunner struct {
	mu    sync.Mutex
	calls []Call

	RunFunc    func(argv []string) error
	OutputFunc func(argv []string) (string, error)
}

var _ runner.Runner = (*FakeRunner)(nil)

// Run records argv and delegates to RunFunc.
func (f *FakeRunner) Run(_ context.Context, argv []string) error {
	f.record(Call{Argv: append([]string(nil), argv...)})
	if f.RunFunc != nil {
		return f.RunFunc(argv)
	}
	return nil
}

// Output records argv and delegates to OutputFunc.
func (f *FakeRunner) Output(_ context.Context, argv []string) (string, error) {
	f.record(Call{Argv: append([]string(nil), argv...), Capture: true})
	if f.OutputFunc != nil {
		return f.OutputFunc(argv)
	}
	return "", nil
}

// Calls returns a copy of the recorded calls in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the recorded calls as space-joined strings.
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, call := range calls {
		out = append(out, call.String())
	}
	return out
}

func (f *FakeRunner) record(call Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// ExitError returns a runner.ProcessError for argv with the given exit code.
func ExitError(argv []string, code int) error {
	return &runner.ProcessError{Argv: argv, ExitCode: code, Err: fmt.Errorf("exit status %d", code)}
}
