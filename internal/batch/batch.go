// Package batch applies an operation to projects one at a time and decides,
// for each failure, whether the batch continues.
package batch

import (
	"errors"
	"fmt"

	"github.com/satococoa/forall/internal/command"
)

// Named is anything with a display name
type Named interface {
	Name() string
}

// Reporter receives batch progress
type Reporter interface {
	Error(msg string, args ...any)
	Failures(names []string)
}

// Result lists the projects whose operation failed but were tolerated
type Result struct {
	Failed []string
}

// OK reports whether every project succeeded.
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// Err returns an error naming the failed projects, or nil.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return &FailuresError{Projects: r.Failed}
}

// FailuresError is returned by Result.Err
type FailuresError struct {
	Projects []string
}

func (e *FailuresError) Error() string {
	if len(e.Projects) == 1 {
		return "1 project failed"
	}
	return fmt.Sprintf("%d projects failed", len(e.Projects))
}

// Runner drives a batch. Its settings are fixed at construction.
type Runner struct {
	keepGoing bool
	report    Reporter
}

func NewRunner(keepGoing bool, report Reporter) *Runner {
	return &Runner{keepGoing: keepGoing, report: report}
}

// KeepGoing reports whether tolerable failures let the batch continue.
func (r *Runner) KeepGoing() bool {
	return r.keepGoing
}

// Each calls fn for every project in order. A nonzero exit of a command, or
// a *ProjectFailure, fails the project; with keep-going the failure is
// reported in one line, the project is recorded and the batch moves on.
// Without keep-going, and for every other error, the batch ends with that
// error. The failure summary is reported when the batch runs to the end.
func Each[P Named](r *Runner, projects []P, fn func(P) error) (*Result, error) {
	result := &Result{}
	for _, p := range projects {
		err := fn(p)
		if err == nil {
			continue
		}
		if !r.keepGoing || !Tolerable(err) {
			return result, err
		}
		r.report.Error(shortFailure(err))
		result.Failed = append(result.Failed, p.Name())
	}
	r.report.Failures(result.Failed)
	return result, nil
}

// ProjectFailure is a failed per-project check that is not a command, such as
// a project without sources to count. Keep-going tolerates it.
type ProjectFailure struct {
	Project string
	Reason  string
}

func (e *ProjectFailure) Error() string {
	return e.Project + ": " + e.Reason
}

// Fail returns a *ProjectFailure.
func Fail(project, reason string) error {
	return &ProjectFailure{Project: project, Reason: reason}
}

// Tolerable reports whether err may be absorbed under keep-going.
func Tolerable(err error) bool {
	var exitErr *command.ExitError
	var failure *ProjectFailure
	return errors.As(err, &exitErr) || errors.As(err, &failure)
}

// shortFailure is the one-line keep-going diagnostic: the bracketed exit
// status for command failures, the message otherwise.
func shortFailure(err error) string {
	var exitErr *command.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status.Short()
	}
	return err.Error()
}

// RunEach runs the command built for each project through cmds.
func RunEach[P Named](r *Runner, cmds *command.Runner, projects []P, build func(P) *command.Command) (*Result, error) {
	return Each(r, projects, func(p P) error {
		return cmds.Run(build(p))
	})
}
