package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Echoer logs a command line before it runs.
type Echoer interface {
	Command(line CommandLine)
}

type nopEchoer struct{}

func (nopEchoer) Command(CommandLine) {}

// Runner applies the verbosity policy to commands and runs them through an
// Executor. The level is fixed when the Runner is created.
type Runner struct {
	level    Level
	executor Executor
	echo     Echoer
	out      io.Writer
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithExecutor replaces the process executor, mainly for tests.
func WithExecutor(e Executor) RunnerOption {
	return func(r *Runner) { r.executor = e }
}

// WithEchoer sets where command lines are logged.
func WithEchoer(e Echoer) RunnerOption {
	return func(r *Runner) { r.echo = e }
}

// WithOutput sets where failure transcripts are printed.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// NewRunner creates a Runner for the given verbosity.
func NewRunner(level Level, opts ...RunnerOption) *Runner {
	r := &Runner{
		level: level,
		echo:  nopEchoer{},
		out:   os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.executor == nil {
		r.executor = NewProcessExecutor()
	}
	return r
}

// Level returns the verbosity the runner was created with.
func (r *Runner) Level() Level {
	return r.level
}

// Run executes c under its kind's policy and fails on a nonzero exit. When
// output was captured rather than shown live, a failing command's transcript
// is printed once before the ExitError is returned.
func (r *Runner) Run(c *Command) error {
	p := r.prepare(c)
	spec := *c
	spec.Mode = p.Mode(r.level)
	_, err := r.executor.Execute(spec)
	if err != nil && !p.Hidden {
		r.showTranscript(err)
	}
	return err
}

// Status executes c and returns its exit status. A nonzero exit is not an
// error here; only a failure to run or monitor the process is.
func (r *Runner) Status(c *Command) (ExitStatus, error) {
	p := r.prepare(c)
	spec := *c
	spec.Mode = p.Mode(r.level)
	if p.Hidden {
		spec.Mode = ModeInherit
		spec.Discard()
	}
	out, err := r.executor.Execute(spec)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if spec.Mode == ModeCaptureCombined {
			r.showTranscript(err)
		}
		return exitErr.Status, nil
	}
	return out.Status, err
}

// Capture executes c with stdout and stderr captured separately.
func (r *Runner) Capture(c *Command) (Outcome, error) {
	r.prepare(c)
	spec := *c
	spec.Mode = ModeCaptureSeparate
	return r.executor.Execute(spec)
}

// Output executes c and returns its stdout with surrounding whitespace
// removed.
func (r *Runner) Output(c *Command) (string, error) {
	out, err := r.Capture(c)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

// Check executes c with its output discarded and reports whether it
// succeeded.
func (r *Runner) Check(c *Command) (bool, error) {
	r.prepare(c)
	spec := *c
	spec.Mode = ModeInherit
	spec.Discard()
	out, err := r.executor.Execute(spec)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out.Status.Success(), nil
}

func (r *Runner) prepare(c *Command) Policy {
	p := PolicyFor(c.Kind)
	if p.Echo(r.level) {
		r.echo.Command(c.Line())
	}
	return p
}

func (r *Runner) showTranscript(err error) {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Shown || r.level < LevelQuiet {
		return
	}
	text := exitErr.Captured()
	if text == "" {
		return
	}
	_, _ = fmt.Fprint(r.out, text)
	if !strings.HasSuffix(text, "\n") {
		_, _ = fmt.Fprintln(r.out)
	}
	exitErr.Shown = true
}
