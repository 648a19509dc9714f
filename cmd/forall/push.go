package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

// NewPushCommand creates the push command definition
func NewPushCommand() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Run `git push` on each project ahead of its upstream",
		Description: "Only projects with a GitHub remote whose HEAD has commits not in\n" +
			"@{upstream} are pushed.",
		Action: pushCommand,
	}
}

func pushCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, e.pushProject)
}

func (e *env) pushProject(p *project.Project) error {
	if !p.HasGitHub() {
		return nil
	}
	ahead, err := p.Repo().AheadCount()
	if err != nil || ahead == 0 {
		return err
	}
	e.log.Project(p.Name())
	return e.cmds.Run(p.Cmd(command.GitPush("")))
}
