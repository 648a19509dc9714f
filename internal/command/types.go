// Package command runs external programs on behalf of every forall operation.
//
// A Command describes one invocation. A Runner echoes its command line
// according to the verbosity policy for its Kind, hands it to an Executor,
// and returns either an Outcome or one of the Error implementations
// (StartupError, ExitError, DecodeError, DrainError, WaitError).
package command

import (
	"io"
	"os"
	"strconv"
	"syscall"
)

// Kind classifies the role a command plays and selects its verbosity policy.
type Kind int

const (
	// KindOrdinary is an operational command such as `git pull`.
	KindOrdinary Kind = iota
	// KindPrimary is the user-supplied command of `forall run`.
	KindPrimary
	// KindInternal is a bookkeeping query whose output feeds another decision.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindPrimary:
		return "primary"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Mode selects how the child's standard streams are routed.
type Mode int

const (
	// ModeInherit connects the child's stdout and stderr to the parent's.
	ModeInherit Mode = iota
	// ModeCaptureSeparate captures stdout and stderr into separate buffers.
	ModeCaptureSeparate
	// ModeCaptureCombined merges stdout and stderr into one transcript.
	ModeCaptureCombined
)

func (m Mode) String() string {
	switch m {
	case ModeInherit:
		return "inherit"
	case ModeCaptureSeparate:
		return "capture-separate"
	case ModeCaptureCombined:
		return "capture-combined"
	default:
		return "unknown"
	}
}

// Command represents a program invocation
type Command struct {
	Name    string   // Program name or path (e.g., "git")
	Args    []string // Program arguments
	WorkDir string   // Optional working directory
	Env     []string // Extra KEY=VALUE pairs appended to the parent environment
	Kind    Kind
	Mode    Mode

	// Stdin, Stdout and Stderr override the parent's streams in
	// ModeInherit. They are ignored by the capture modes, which give the
	// child no input.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New starts building a command for the given program.
func New(name string) *Command {
	return &Command{Name: name}
}

// Arg appends a single argument.
func (c *Command) Arg(arg string) *Command {
	c.Args = append(c.Args, arg)
	return c
}

// AddArgs appends several arguments in order.
func (c *Command) AddArgs(args ...string) *Command {
	c.Args = append(c.Args, args...)
	return c
}

// Dir sets the working directory.
func (c *Command) Dir(dir string) *Command {
	c.WorkDir = dir
	return c
}

// Setenv adds an environment variable for the child.
func (c *Command) Setenv(key, value string) *Command {
	c.Env = append(c.Env, key+"="+value)
	return c
}

// WithKind sets the command's kind.
func (c *Command) WithKind(kind Kind) *Command {
	c.Kind = kind
	return c
}

// WithMode sets the execution mode.
func (c *Command) WithMode(mode Mode) *Command {
	c.Mode = mode
	return c
}

// Discard sends both output streams to io.Discard when run in ModeInherit.
func (c *Command) Discard() *Command {
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c
}

// Line renders the command for display.
func (c *Command) Line() CommandLine {
	return Render(c.Name, c.Args, c.WorkDir)
}

// ExitStatus is how a child process terminated.
type ExitStatus struct {
	code    int
	hasCode bool
	signal  string
}

// Exited returns the status of a process that exited with code.
func Exited(code int) ExitStatus {
	return ExitStatus{code: code, hasCode: true}
}

// Signaled returns the status of a process killed by the named signal.
func Signaled(signal string) ExitStatus {
	return ExitStatus{signal: signal}
}

func statusFromState(state *os.ProcessState) ExitStatus {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Signaled(ws.Signal().String())
	}
	if code := state.ExitCode(); code >= 0 {
		return Exited(code)
	}
	return ExitStatus{}
}

// Success reports whether the process exited with code 0.
func (s ExitStatus) Success() bool {
	return s.hasCode && s.code == 0
}

// Code returns the exit code. ok is false when the process did not exit
// normally (for example it was killed by a signal).
func (s ExitStatus) Code() (code int, ok bool) {
	return s.code, s.hasCode
}

func (s ExitStatus) String() string {
	switch {
	case s.hasCode:
		return "exit status " + strconv.Itoa(s.code)
	case s.signal != "":
		return "signal: " + s.signal
	default:
		return "abnormal termination"
	}
}

// Short is the bracketed form used for keep-going diagnostics, e.g. "[3]".
func (s ExitStatus) Short() string {
	if s.hasCode {
		return "[" + strconv.Itoa(s.code) + "]"
	}
	return "[" + s.String() + "]"
}

// Outcome is the result of a completed process. Which text fields are
// populated depends on the Mode it ran in.
type Outcome struct {
	Status   ExitStatus
	Stdout   string // ModeCaptureSeparate
	Stderr   string // ModeCaptureSeparate
	Combined string // ModeCaptureCombined
}

// Executor runs a single command to completion
type Executor interface {
	Execute(cmd Command) (Outcome, error)
}
