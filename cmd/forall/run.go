package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/invocation"
	"github.com/satococoa/forall/internal/project"
)

const runUsage = "forall run [--stash] [--shell | --script] [--] COMMAND [ARG...]"

// invocationFlags are shared by run and runpr
func invocationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "shell",
			Usage: "Join the arguments and run them with $SHELL -c",
		},
		&cli.BoolFlag{
			Name:  "script",
			Usage: "Treat the first argument as a script and run it with perl",
		},
	}
}

func newInvocation(cmd *cli.Command, e *env, usage string) (*invocation.Invocation, error) {
	return invocation.New(cmd.Args().Slice(), invocation.Options{
		Shell:     cmd.Bool("shell"),
		Script:    cmd.Bool("script"),
		ShellPath: e.cfg.ShellOrDefault(),
		Usage:     usage,
	})
}

// NewRunCommand creates the run command definition
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a command in each project",
		UsageText: runUsage,
		ArgsUsage: "[--] COMMAND [ARG...]",
		Description: "The command runs with each project's directory as its working directory\n" +
			"and with FORALL_PROJECT_NAME and FORALL_PROJECT_DIR set. Its output is\n" +
			"shown only when it fails, unless --verbose is given.\n\n" +
			"Examples:\n" +
			"  forall run -- git status --short\n" +
			"  forall -k run --shell 'make lint && make test'\n" +
			"  forall run --script ./bump-version.pl 1.2.0",
		Flags: append(invocationFlags(),
			&cli.BoolFlag{
				Name:    "stash",
				Aliases: []string{"s"},
				Usage:   "Stash uncommitted changes before running the command",
			},
		),
		Action: runCommand,
	}
}

func runCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	inv, err := newInvocation(cmd, e, runUsage)
	if err != nil {
		return err
	}
	projects, err := e.projects()
	if err != nil {
		return err
	}
	return e.runProjects(projects, inv, cmd.Bool("stash"))
}

func (e *env) runProjects(projects []*project.Project, inv *invocation.Invocation, stash bool) error {
	return e.each(projects, func(p *project.Project) error {
		e.log.Project(p.Name())
		if stash {
			if _, err := p.Repo().Stash(); err != nil {
				return err
			}
		}
		return e.cmds.Run(inv.Command(p))
	})
}
