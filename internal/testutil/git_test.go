package testutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestConfigureTestRepo(t *testing.T) {
	repoDir := t.TempDir()

	var calls [][]string
	runner := func(dir string, args ...string) {
		if dir != repoDir {
			t.Fatalf("runner dir = %s, want %s", dir, repoDir)
		}
		calls = append(calls, args)
	}

	ConfigureTestRepo(t, repoDir, runner)

	want := [][]string{
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	}

	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("runner calls = %#v, want %#v", calls, want)
	}
}

func TestInitRepo(t *testing.T) {
	dir := InitRepo(t, filepath.Join(t.TempDir(), "sample"), "trunk")

	if got := RunGit(t, dir, "symbolic-ref", "--short", "HEAD"); got != "trunk" {
		t.Fatalf("branch = %q, want trunk", got)
	}
	if got := RunGit(t, dir, "rev-list", "--count", "HEAD"); got != "1" {
		t.Fatalf("commit count = %q, want 1", got)
	}
}

func TestPythonProject(t *testing.T) {
	dir := PythonProject(t, t.TempDir(), "my-lib", "main")

	if _, err := os.Stat(filepath.Join(dir, "src", "my_lib", "__init__.py")); err != nil {
		t.Fatalf("package not created: %v", err)
	}
	if got := RunGit(t, dir, "status", "--porcelain"); got != "" {
		t.Fatalf("work tree not clean: %q", got)
	}
}
