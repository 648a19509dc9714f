// Package invocation turns the command line given to `forall run` or
// `forall runpr` into a command for each project.
package invocation

import (
	"path/filepath"
	"strings"

	"github.com/satococoa/forall/internal/command"
	forallerrors "github.com/satococoa/forall/internal/errors"
)

// Environment variables set for every per-project command
const (
	EnvProjectName = "FORALL_PROJECT_NAME"
	EnvProjectDir  = "FORALL_PROJECT_DIR"
)

// Mode is how the given arguments are executed
type Mode int

const (
	// Literal runs argv[0] with the remaining arguments.
	Literal Mode = iota
	// Shell joins the arguments and runs them with `$SHELL -c`.
	Shell
	// Script runs a Perl script with the remaining arguments.
	Script
)

// Target is the project a command runs in
type Target interface {
	Name() string
	Dir() string
}

// Invocation is a validated command template
type Invocation struct {
	mode  Mode
	argv  []string
	shell string
}

// Options selects the invocation mode
type Options struct {
	Shell  bool
	Script bool
	// ShellPath is the shell used in Shell mode.
	ShellPath string
	// Usage is shown when no command is given.
	Usage string
}

// New validates argv against opts. A Script path is made absolute so that it
// still resolves once the command runs inside each project.
func New(argv []string, opts Options) (*Invocation, error) {
	if opts.Shell && opts.Script {
		return nil, forallerrors.ConflictingModes()
	}
	if len(argv) == 0 {
		return nil, forallerrors.CommandRequired(opts.Usage)
	}

	inv := &Invocation{argv: append([]string(nil), argv...), shell: opts.ShellPath}
	switch {
	case opts.Shell:
		inv.mode = Shell
		if inv.shell == "" {
			inv.shell = "sh"
		}
	case opts.Script:
		inv.mode = Script
		abs, err := filepath.Abs(argv[0])
		if err != nil {
			return nil, err
		}
		inv.argv[0] = abs
	}
	return inv, nil
}

func (i *Invocation) Mode() Mode {
	return i.mode
}

// Command builds the primary command for target.
func (i *Invocation) Command(target Target) *command.Command {
	var cmd *command.Command
	switch i.mode {
	case Shell:
		// #nosec G204 - the operator supplies the command
		cmd = command.New(i.shell).AddArgs("-c", strings.Join(i.argv, " "))
	case Script:
		cmd = command.New("perl").AddArgs(i.argv...)
	default:
		cmd = command.New(i.argv[0]).AddArgs(i.argv[1:]...)
	}
	return WithProjectEnv(cmd.WithKind(command.KindPrimary), target)
}

// WithProjectEnv roots cmd in target and exports its name and directory.
func WithProjectEnv(cmd *command.Command, target Target) *command.Command {
	return cmd.Dir(target.Dir()).
		Setenv(EnvProjectName, target.Name()).
		Setenv(EnvProjectDir, target.Dir())
}
