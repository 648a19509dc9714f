package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/config"
	"github.com/satococoa/forall/internal/project"
	"github.com/satococoa/forall/internal/testutil"
)

// levelFor runs a root command with the global flags and returns the
// level resolved against cfg.
func levelFor(t *testing.T, cfg *config.Config, args ...string) command.Level {
	t.Helper()

	var level command.Level
	app := &cli.Command{
		Name:                   "forall",
		UseShortOptionHandling: true,
		Flags:                  globalFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			level = verbosity(cmd, cfg)
			return nil
		},
	}
	require.NoError(t, app.Run(context.Background(), append([]string{"forall"}, args...)))
	return level
}

func TestVerbosity(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		args []string
		want command.Level
	}{
		{name: "default", want: command.LevelNormal},
		{name: "quiet", args: []string{"-q"}, want: command.LevelQuiet},
		{name: "quiet twice", args: []string{"-qq"}, want: command.LevelOff},
		{name: "quiet repeated", args: []string{"-q", "--quiet"}, want: command.LevelOff},
		{name: "verbose", args: []string{"-v"}, want: command.LevelVerbose},
		{name: "verbose wins", args: []string{"-q", "-v"}, want: command.LevelVerbose},
		{name: "config quiet", cfg: config.Config{Quiet: 1}, want: command.LevelQuiet},
		{name: "config verbose", cfg: config.Config{Verbose: true}, want: command.LevelVerbose},
		{name: "flag overrides config", cfg: config.Config{Verbose: true}, args: []string{"-q"}, want: command.LevelQuiet},
		{name: "verbose flag overrides config quiet", cfg: config.Config{Quiet: 2}, args: []string{"-v"}, want: command.LevelVerbose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Equal(t, tt.want, levelFor(t, &cfg, tt.args...))
		})
	}
}

func TestConfigKeepGoing(t *testing.T) {
	root := pythonTree(t, "alpha", "beta")
	testutil.WriteFile(t, root, ".forall.yml", "keep_going: true\n")

	res := runForall(t, "--root", root, "run", "--", "false")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "\nFailures:\nalpha\nbeta\n")
}

func TestExplicitConfigFile(t *testing.T) {
	root := pythonTree(t, "alpha", "beta")
	cfgPath := testutil.WriteFile(t, t.TempDir(), "forall.yml", "skip: [beta]\n")

	res := runForall(t, "--root", root, "--config", cfgPath, "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "alpha\n", res.stdout)

	missing := runForall(t, "--root", root, "--config", filepath.Join(t.TempDir(), "nope.yml"), "list")
	assert.Equal(t, 1, missing.code)
	assert.Contains(t, missing.stderr, "failed to load configuration")
}

func TestLogFile(t *testing.T) {
	root := pythonTree(t, "alpha")
	logPath := filepath.Join(t.TempDir(), "forall.log")

	res := runForall(t, "--root", root, "--log-file", logPath, "gc")

	require.Equal(t, 0, res.code, res.stderr)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"alpha"`)
	assert.Contains(t, string(data), `"msg":"+git gc`)
}

func TestSelect(t *testing.T) {
	root := pythonTree(t, "alpha", "beta", "gamma")

	t.Run("keeps the picked projects", func(t *testing.T) {
		prev := selectProjects
		t.Cleanup(func() { selectProjects = prev })
		var offered []string
		selectProjects = func(projects []*project.Project) ([]*project.Project, error) {
			for _, p := range projects {
				offered = append(offered, p.Name())
			}
			return []*project.Project{projects[0], projects[2]}, nil
		}

		res := runForall(t, "--root", root, "--select", "list")

		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, offered)
		assert.Equal(t, "alpha\ngamma\n", res.stdout)
	})

	t.Run("empty selection is an error", func(t *testing.T) {
		prev := selectProjects
		t.Cleanup(func() { selectProjects = prev })
		selectProjects = func([]*project.Project) ([]*project.Project, error) { return nil, nil }

		res := runForall(t, "--root", root, "--select", "list")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "no projects selected")
	})

	t.Run("picker errors are fatal", func(t *testing.T) {
		prev := selectProjects
		t.Cleanup(func() { selectProjects = prev })
		selectProjects = func([]*project.Project) ([]*project.Project, error) {
			return nil, errors.New("user aborted")
		}

		res := runForall(t, "--root", root, "--select", "list")

		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "forall: user aborted")
	})
}
