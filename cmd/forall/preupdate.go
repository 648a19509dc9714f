package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

const preCommitConfig = ".pre-commit-config.yaml"

// NewPreUpdateCommand creates the pre-update command definition
func NewPreUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:  "pre-update",
		Usage: "Update the pre-commit hooks of each project",
		Description: "For every project with a " + preCommitConfig + ": stash local changes,\n" +
			"run `pre-commit autoupdate`, apply the updated hooks to all files and\n" +
			"commit the result when anything changed.",
		Action: preUpdateCommand,
	}
}

func preUpdateCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.each(projects, e.preUpdateProject)
}

func preCommit(args ...string) *command.Command {
	return command.New("pre-commit").AddArgs(args...)
}

func (e *env) preUpdateProject(p *project.Project) error {
	configured, err := p.Exists(preCommitConfig)
	if err != nil || !configured {
		return err
	}
	e.log.Project(p.Name())

	if _, err := p.Repo().Stash(); err != nil {
		return err
	}
	if err := e.cmds.Run(p.Cmd(preCommit("autoupdate"))); err != nil {
		return err
	}
	if err := e.cmds.Run(p.Cmd(command.GitAdd(preCommitConfig))); err != nil {
		return err
	}
	// Hooks that rewrite files fail this run; the second run reports real
	// problems only.
	if _, err := e.cmds.Status(p.Cmd(preCommit("run", "-a"))); err != nil {
		return err
	}
	if err := e.cmds.Run(p.Cmd(command.GitAddAll())); err != nil {
		return err
	}
	if err := e.cmds.Run(p.Cmd(preCommit("run", "-a"))); err != nil {
		return err
	}

	staged, err := p.Repo().HasStagedChanges()
	if err != nil || !staged {
		return err
	}
	return e.cmds.Run(p.Cmd(command.GitCommit("Autoupdate " + preCommitConfig)))
}
