package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/project"
)

// NewListCommand creates the list command definition
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List projects",
		Description: "Prints the name of each project, one per line.\n\n" +
			"With --json, prints one JSON object per project with its name, directory,\n" +
			"language, GitHub repository, workspace flags and whether it is on its\n" +
			"default branch.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"J"},
				Usage:   "Print project details as JSON lines",
			},
		},
		Action: listCommand,
	}
}

func listCommand(_ context.Context, cmd *cli.Command) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	projects, err := e.projects()
	if err != nil {
		return err
	}
	return listProjects(e.out, projects, cmd.Bool("json"))
}

func listProjects(w io.Writer, projects []*project.Project, asJSON bool) error {
	for _, p := range projects {
		if !asJSON {
			if _, err := fmt.Fprintln(w, p.Name()); err != nil {
				return err
			}
			continue
		}
		details, err := p.Details()
		if err != nil {
			return err
		}
		data, err := json.Marshal(details)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
