package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/satococoa/forall/internal/testutil"
)

type appResult struct {
	stdout string
	stderr string
	code   int
}

// runForall runs the app in-process with its output captured.
func runForall(t *testing.T, args ...string) appResult {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	code := run(context.Background(), app, append([]string{"forall"}, args...))
	return appResult{stdout: out.String(), stderr: errOut.String(), code: code}
}

// pythonTree creates one Python project per name under a fresh root.
func pythonTree(t *testing.T, names ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, name := range names {
		testutil.PythonProject(t, root, name, "main")
	}
	return root
}

// githubProject creates a Python project whose origin is
// https://github.com/acme/NAME.git while pushes go to a local bare
// repository. main is pushed and tracks origin/main. It returns the project
// and bare repository directories.
func githubProject(t *testing.T, root, name string) (string, string) {
	t.Helper()

	dir := testutil.PythonProject(t, root, name, "main")
	bare := filepath.Join(t.TempDir(), name+".git")
	testutil.RunGit(t, dir, "init", "-q", "--bare", bare)

	url := "https://github.com/acme/" + name + ".git"
	testutil.RunGit(t, dir, "remote", "add", "origin", url)
	testutil.RunGit(t, dir, "config", "url."+bare+".pushInsteadOf", url)
	testutil.RunGit(t, dir, "push", "-q", "-u", "origin", "main")
	return dir, bare
}
