package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/satococoa/forall/internal/batch"
	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/config"
	"github.com/satococoa/forall/internal/errors"
	"github.com/satococoa/forall/internal/finder"
	"github.com/satococoa/forall/internal/logging"
	"github.com/satococoa/forall/internal/project"
)

// env holds what every operation needs. It is built once per invocation
// from the global flags and the configuration file.
type env struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	log    *logging.Logger
	cmds   *command.Runner
	batch  *batch.Runner
	finder *finder.Finder
	pick   bool
}

// Variables to allow mocking in tests
var (
	envGetwd       = os.Getwd
	selectProjects = pickProjects
)

func newEnv(cmd *cli.Command) (*env, error) {
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	errOut := cmd.Root().ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}

	root, err := resolveRoot(cmd.String("root"))
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return nil, err
	}

	branch, err := defaultBranchFilter(cmd)
	if err != nil {
		return nil, err
	}

	level := verbosity(cmd, cfg)
	logFile := cfg.ResolveLogFile(root)
	if cmd.IsSet("log-file") {
		logFile = cmd.String("log-file")
	}
	logger := logging.New(errOut, level, logging.Options{LogFile: logFile})

	runner := command.NewRunner(level,
		command.WithExecutor(command.NewProcessExecutorWithStreams(out, errOut)),
		command.WithEchoer(logger),
		command.WithOutput(errOut),
	)

	keepGoing := cfg.KeepGoing
	if cmd.IsSet("keep-going") {
		keepGoing = cmd.Bool("keep-going")
	}

	f, err := finder.New(runner, finder.Options{
		Root:          root,
		Skip:          append(append([]string(nil), cfg.Skip...), cmd.StringSlice("skip")...),
		DefaultBranch: branch,
		Filter:        cmd.String("filter"),
		Shell:         cfg.ShellOrDefault(),
	})
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	return &env{
		out:    out,
		errOut: errOut,
		cfg:    cfg,
		log:    logger,
		cmds:   runner,
		batch:  batch.NewRunner(keepGoing, logger),
		finder: f,
		pick:   cmd.Bool("select"),
	}, nil
}

func (e *env) close() {
	_ = e.log.Close()
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := envGetwd()
		if err != nil {
			return "", errors.RootAccessFailed(".", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.RootAccessFailed(root, err)
	}
	return abs, nil
}

func loadConfig(cmd *cli.Command, root string) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadConfigFile(path, false)
		if err != nil {
			return nil, errors.ConfigLoadFailed(path, err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, errors.ConfigLoadFailed(filepath.Join(root, config.ConfigFileName), err)
	}
	return cfg, nil
}

// verbosity resolves the level from -q/-v, falling back to the configuration
// for whichever flag was not given.
func verbosity(cmd *cli.Command, cfg *config.Config) command.Level {
	quiet, verbose := cfg.Quiet, cfg.Verbose
	if cmd.IsSet("quiet") {
		quiet = cmd.Count("quiet")
		if !cmd.IsSet("verbose") {
			verbose = false
		}
	}
	if cmd.IsSet("verbose") {
		verbose = cmd.Bool("verbose")
	}
	return command.LevelFromFlags(quiet, verbose)
}

func defaultBranchFilter(cmd *cli.Command) (*bool, error) {
	on, off := cmd.Bool("def-branch"), cmd.Bool("no-def-branch")
	switch {
	case on && off:
		return nil, errors.ConflictingFlags("--def-branch", "--no-def-branch")
	case on || off:
		return &on, nil
	default:
		return nil, nil
	}
}

// projects finds the projects to operate on, letting the operator narrow
// them down when --select is given.
func (e *env) projects() ([]*project.Project, error) {
	projects, err := e.finder.FindAll()
	if err != nil || !e.pick || len(projects) == 0 {
		return projects, err
	}
	selected, err := selectProjects(projects)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, errors.NoProjectsSelected()
	}
	return selected, nil
}

func pickProjects(projects []*project.Project) ([]*project.Project, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.SelectNeedsTerminal()
	}

	options := make([]huh.Option[int], 0, len(projects))
	for i, p := range projects {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name(), p.Language()), i))
	}

	var chosen []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Select projects:").
				Options(options...).
				Value(&chosen),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	slices.Sort(chosen)
	selected := make([]*project.Project, 0, len(chosen))
	for _, i := range chosen {
		selected = append(selected, projects[i])
	}
	return selected, nil
}

// each runs fn for every project under the batch policy and turns a batch
// with failures into an error.
func (e *env) each(projects []*project.Project, fn func(*project.Project) error) error {
	result, err := batch.Each(e.batch, projects, fn)
	if err != nil {
		return err
	}
	return result.Err()
}
