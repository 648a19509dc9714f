package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

// NewRsCleanCommand creates the rsclean command definition
func NewRsCleanCommand() *cli.Command {
	return &cli.Command{
		Name:   "rsclean",
		Usage:  "Run `cargo clean` on Rust projects with a target/ directory",
		Action: rscleanCommand,
	}
}

func rscleanCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, e.rscleanProject)
}

func (e *env) rscleanProject(p *project.Project) error {
	if p.Language() != project.Rust {
		return nil
	}
	built, err := p.Exists("target")
	if err != nil || !built {
		return err
	}
	e.log.Project(p.Name())
	return e.cmds.Run(p.Cmd(command.New("cargo").Arg("clean")))
}
