package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

// NewPullCommand creates the pull command definition
func NewPullCommand() *cli.Command {
	return &cli.Command{
		Name:        "pull",
		Usage:       "Run `git pull` on each project with a GitHub remote",
		Description: "Projects whose origin is not a GitHub repository are left alone.",
		Action:      pullCommand,
	}
}

func pullCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, e.pullProject)
}

func (e *env) pullProject(p *project.Project) error {
	if !p.HasGitHub() {
		return nil
	}
	e.log.Project(p.Name())
	return e.cmds.Run(p.Cmd(command.GitPull()))
}
