package command

import "fmt"

// Error is a failure to run a command. The set of implementations is closed:
// *StartupError, *ExitError, *DecodeError, *DrainError and *WaitError.
type Error interface {
	error
	CommandLine() CommandLine
	commandError()
}

// Stream names one of a child's output streams.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// StartupError means the process could not be spawned.
type StartupError struct {
	Line CommandLine
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Line.Marked(), e.Err)
}

func (e *StartupError) Unwrap() error            { return e.Err }
func (e *StartupError) CommandLine() CommandLine { return e.Line }
func (*StartupError) commandError()              {}

// ExitError means the process ran and reported failure.
type ExitError struct {
	Line   CommandLine
	Status ExitStatus
	// Output holds whatever was captured; it is empty for ModeInherit.
	Output Outcome
	// Shown is set once the captured transcript has been printed to the
	// operator so that error reporting does not print it a second time.
	Shown bool
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %s failed: %s", e.Line.Marked(), e.Status)
}

func (e *ExitError) CommandLine() CommandLine { return e.Line }
func (*ExitError) commandError()              {}

// Captured returns the captured text worth showing: the merged transcript
// when there is one, otherwise stderr.
func (e *ExitError) Captured() string {
	if e.Output.Combined != "" {
		return e.Output.Combined
	}
	return e.Output.Stderr
}

// DecodeError means captured bytes were not valid UTF-8.
type DecodeError struct {
	Line   CommandLine
	Stream Stream
	// Offset is the byte index of the first invalid sequence.
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s output of %s: invalid UTF-8 at byte %d", e.Stream, e.Line.Marked(), e.Offset)
}

func (e *DecodeError) CommandLine() CommandLine { return e.Line }
func (*DecodeError) commandError()              {}

// DrainError means reading one of the child's pipes failed.
type DrainError struct {
	Line   CommandLine
	Stream Stream
	Err    error
}

func (e *DrainError) Error() string {
	return fmt.Sprintf("error reading %s from %s: %v", e.Stream, e.Line.Marked(), e.Err)
}

func (e *DrainError) Unwrap() error            { return e.Err }
func (e *DrainError) CommandLine() CommandLine { return e.Line }
func (*DrainError) commandError()              {}

// WaitError means waiting for the child to terminate failed.
type WaitError struct {
	Line CommandLine
	Err  error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("error waiting for %s to terminate: %v", e.Line.Marked(), e.Err)
}

func (e *WaitError) Unwrap() error            { return e.Err }
func (e *WaitError) CommandLine() CommandLine { return e.Line }
func (*WaitError) commandError()              {}

var (
	_ Error = (*StartupError)(nil)
	_ Error = (*ExitError)(nil)
	_ Error = (*DecodeError)(nil)
	_ Error = (*DrainError)(nil)
	_ Error = (*WaitError)(nil)
)
