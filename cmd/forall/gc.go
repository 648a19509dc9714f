package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/batch"
	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/project"
)

// NewGCCommand creates the gc command definition
func NewGCCommand() *cli.Command {
	return &cli.Command{
		Name:   "gc",
		Usage:  "Run `git gc` on each project",
		Action: gcCommand,
	}
}

func gcCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.gcProjects(projects)
}

func (e *env) gcProjects(projects []*project.Project) error {
	result, err := batch.RunEach(e.batch, e.cmds, projects, func(p *project.Project) *command.Command {
		e.log.Project(p.Name())
		return p.Cmd(command.GitGC())
	})
	if err != nil {
		return err
	}
	return result.Err()
}
