package main

import (
	"github.com/urfave/cli/v3"
)

func init() {
	// -v is --verbose; keep --version long-only.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "Show version information",
	}
}

func newApp() *cli.Command {
	app := &cli.Command{
		Name:  "forall",
		Usage: "Run an operation across every project repository under a directory",
		Description: "forall finds the Python and Rust projects beneath a root directory (default: the current\n" +
			"directory) and applies one operation to each of them in turn.\n\n" +
			"Examples:\n" +
			"  forall list --json\n" +
			"  forall -k pull\n" +
			"  forall --def-branch run -- git log -1 --oneline\n" +
			"  forall runpr -m 'Bump MSRV' --shell -- 'sed -i s/1.70/1.74/ Cargo.toml'",
		Version:                version,
		EnableShellCompletion:  true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags(),
		Commands: []*cli.Command{
			NewListCommand(),
			NewCleanCommand(),
			NewClocCommand(),
			NewGCCommand(),
			NewPreUpdateCommand(),
			NewPullCommand(),
			NewPushCommand(),
			NewRsCleanCommand(),
			NewRunCommand(),
			NewRunPRCommand(),
		},
	}
	setUsageErrorHandler(app)
	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "keep-going",
			Aliases: []string{"k"},
			Usage:   "Record failing projects and continue with the rest",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Show less output; give twice to show only errors",
			Config:  cli.BoolConfig{Count: new(int)},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Also echo and show internal git and cargo queries",
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "Only operate on projects where `SHELLCMD` succeeds",
		},
		&cli.BoolFlag{
			Name:    "def-branch",
			Aliases: []string{"D"},
			Usage:   "Only operate on projects that are on their default branch",
		},
		&cli.BoolFlag{
			Name:  "no-def-branch",
			Usage: "Only operate on projects that are not on their default branch",
		},
		&cli.StringFlag{
			Name:  "root",
			Usage: "Look for projects under `DIRPATH` (default: current directory)",
		},
		&cli.StringSliceFlag{
			Name:  "skip",
			Usage: "Do not operate on the project `NAME` (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "select",
			Usage: "Pick the projects to operate on interactively",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Read configuration from `FILE` instead of ROOT/.forall.yml",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Also write a structured log to `FILE`",
		},
	}
}
