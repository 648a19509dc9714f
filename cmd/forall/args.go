package main

import (
	"context"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/errors"
)

// passthroughCommands take another program's argv as their arguments.
var passthroughCommands = []string{"run", "runpr"}

// terminateFlags inserts "--" before the first positional argument of a
// passthrough command, so that flags after the program name belong to the
// program: `forall run git log --oneline` runs `git log --oneline`.
// Arguments already containing "--" before that point are left alone.
func terminateFlags(app *cli.Command, args []string) []string {
	if len(args) < 2 {
		return args
	}
	lineage := []*cli.Command{app}
	for i := 1; i < len(args); i++ {
		arg := args[i]
		current := lineage[len(lineage)-1]
		switch {
		case arg == "--":
			return args
		case len(arg) > 1 && arg[0] == '-':
			if takesSeparateValue(lineage, arg) {
				i++
			}
		case len(current.Commands) > 0:
			sub := current.Command(arg)
			if sub == nil {
				return args
			}
			lineage = append(lineage, sub)
		case slices.Contains(passthroughCommands, current.Name):
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		default:
			return args
		}
	}
	return args
}

// takesSeparateValue reports whether the flag token arg consumes the next
// argument as its value. Short options may be grouped (-kf CMD).
func takesSeparateValue(lineage []*cli.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	if strings.HasPrefix(arg, "--") {
		return flagTakesValue(lineage, arg[2:])
	}
	name := arg[1:]
	if flagTakesValue(lineage, name) {
		return true
	}
	if len(name) > 1 {
		return flagTakesValue(lineage, name[len(name)-1:])
	}
	return false
}

func flagTakesValue(lineage []*cli.Command, name string) bool {
	for i := len(lineage) - 1; i >= 0; i-- {
		for _, fl := range lineage[i].Flags {
			if !slices.Contains(fl.Names(), name) {
				continue
			}
			if df, ok := fl.(cli.DocGenerationFlag); ok {
				return df.TakesValue()
			}
			return false
		}
	}
	return false
}

// reportUsageError replaces the library's usage banner; main reports the
// returned error once.
func reportUsageError(_ context.Context, cmd *cli.Command, err error, _ bool) error {
	return errors.InvalidUsage(cmd.FullName(), err)
}

// setUsageErrorHandler installs reportUsageError on cmd and its subcommands.
func setUsageErrorHandler(cmd *cli.Command) {
	cmd.OnUsageError = reportUsageError
	for _, sub := range cmd.Commands {
		setUsageErrorHandler(sub)
	}
}
