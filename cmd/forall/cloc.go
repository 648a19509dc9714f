package main

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/batch"
	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

// NewClocCommand creates the cloc command definition
func NewClocCommand() *cli.Command {
	return &cli.Command{
		Name:  "cloc",
		Usage: "Count lines of code in each project",
		Description: "Runs cloc over each project's own sources (src/ or top-level *.py files\n" +
			"for Python; library, binary and proc-macro targets for Rust) and prints\n" +
			"the number of code lines followed by the project name.",
		Action: clocCommand,
	}
}

func clocCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, e.clocProject)
}

// clocCmd counts the code lines of srcs in the project's language
func clocCmd(p *project.Project, srcs []string) *command.Command {
	return p.Cmd(command.New("cloc").
		Arg("--include-ext=" + p.Language().Ext()).
		Arg("--json").
		AddArgs(srcs...))
}

func (e *env) clocProject(p *project.Project) error {
	srcs, err := p.SourcePaths(e.cmds)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		return batch.Fail(p.Name(), "could not identify source files")
	}
	out, err := e.cmds.Output(clocCmd(p, srcs))
	if err != nil {
		return err
	}
	lines, err := codeLines(out, p.Language())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.out, "%6d %s\n", lines, p.Name())
	return err
}

// codeLines extracts the code line count for lang from `cloc --json` output.
// cloc prints nothing when no file matched.
func codeLines(out string, lang project.Language) (int64, error) {
	if out == "" {
		return 0, nil
	}
	if !gjson.Valid(out) {
		return 0, fmt.Errorf("failed to parse cloc output: %q", out)
	}
	return gjson.Get(out, lang.String()+".code").Int(), nil
}
