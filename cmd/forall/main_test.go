package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, "forall", app.Name)
	assert.NotEmpty(t, app.Description)

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, expected := range []string{"list", "clean", "cloc", "gc", "pre-update", "pull", "push", "rsclean", "run", "runpr"} {
		assert.True(t, commandNames[expected], "Command %s should exist", expected)
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}
	for _, expected := range []string{"keep-going", "k", "quiet", "q", "verbose", "v", "filter", "f", "def-branch", "D", "no-def-branch", "root", "skip", "select", "config", "log-file"} {
		assert.True(t, flagNames[expected], "Flag %s should exist", expected)
	}
}

func TestAppRun_Version(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{"forall", "--version"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "forall version")
}

func TestAppRun_Help(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	err := app.Run(context.Background(), []string{"forall", "--help"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "runpr")
	assert.Contains(t, buf.String(), "--keep-going")
}

func TestRun_ReportsFatalErrors(t *testing.T) {
	res := runForall(t, "--root", t.TempDir(), "run")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "forall: a command to run is required")
}

func TestRun_ConflictingBranchFilters(t *testing.T) {
	res := runForall(t, "--root", t.TempDir(), "-D", "--no-def-branch", "list")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--def-branch and --no-def-branch cannot be used together")
}

func TestRun_MissingRoot(t *testing.T) {
	res := runForall(t, "--root", "/nonexistent/forall-root", "list")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "failed to read projects under")
}
