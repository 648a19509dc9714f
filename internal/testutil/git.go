// Package testutil provides helpers shared across tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// ConfigureTestRepo applies common git configuration used in tests.
//
// The runner is responsible for executing git commands within the provided
// repository directory and should handle errors appropriately.
func ConfigureTestRepo(t *testing.T, repoDir string, runner func(dir string, args ...string)) {
	t.Helper()

	commands := [][]string{
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	}

	for _, args := range commands {
		runner(repoDir, args...)
	}
}

// RunGit runs git in dir and returns its trimmed stdout, failing the test on
// error.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed in %s: %v\n%s", strings.Join(args, " "), dir, err, out)
	}
	return strings.TrimSpace(string(out))
}

// InitRepo creates a git repository at dir on the given branch with one
// commit containing README.md.
func InitRepo(t *testing.T, dir, branch string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	RunGit(t, dir, "init", "-q")
	RunGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/"+branch)
	ConfigureTestRepo(t, dir, func(d string, args ...string) { RunGit(t, d, args...) })

	WriteFile(t, dir, "README.md", "# "+filepath.Base(dir)+"\n")
	RunGit(t, dir, "add", "README.md")
	RunGit(t, dir, "commit", "-q", "-m", "Initial commit")
	return dir
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// PythonProject creates a git-backed Python project named name under root.
func PythonProject(t *testing.T, root, name, branch string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	InitRepo(t, dir, branch)
	WriteFile(t, dir, "pyproject.toml", "[project]\nname = \""+name+"\"\nversion = \"0.1.0\"\n")
	WriteFile(t, dir, "src/"+strings.ReplaceAll(name, "-", "_")+"/__init__.py", "")
	RunGit(t, dir, "add", "-A")
	RunGit(t, dir, "commit", "-q", "-m", "Add project metadata")
	return dir
}

// RustProject creates a git-backed Rust package named name under root.
func RustProject(t *testing.T, root, name, branch string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	InitRepo(t, dir, branch)
	WriteFile(t, dir, "Cargo.toml", "[package]\nname = \""+name+"\"\nversion = \"0.1.0\"\nedition = \"2021\"\n")
	WriteFile(t, dir, "src/lib.rs", "")
	RunGit(t, dir, "add", "-A")
	RunGit(t, dir, "commit", "-q", "-m", "Add project metadata")
	return dir
}
