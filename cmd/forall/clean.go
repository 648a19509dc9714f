package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

// NewCleanCommand creates the clean command definition
func NewCleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove ignored files from each project",
		Description: "Runs `git clean -dXf` in every project where `git clean -dXn` reports\n" +
			"something to remove. Untracked files that are not ignored are kept.",
		Action: cleanCommand,
	}
}

func cleanCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, e.cleanProject)
}

func (e *env) cleanProject(p *project.Project) error {
	files, err := p.Repo().CleanPreview()
	if err != nil || len(files) == 0 {
		return err
	}
	e.log.Project(p.Name())
	return e.cmds.Run(p.Cmd(command.GitClean()))
}
