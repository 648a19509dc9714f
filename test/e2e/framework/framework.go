package framework

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	dirPerm  = 0755
	filePerm = 0600
)

// TestEnvironment is a directory of projects plus a built forall binary.
type TestEnvironment struct {
	t            *testing.T
	tmpDir       string
	root         string
	forallBinary string
}

// Result is what one forall invocation produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tmpDir := t.TempDir()
	env := &TestEnvironment{
		t:      t,
		tmpDir: tmpDir,
		root:   filepath.Join(tmpDir, "projects"),
	}
	if err := os.MkdirAll(env.root, dirPerm); err != nil {
		t.Fatalf("Failed to create projects root: %v", err)
	}

	env.buildForall()

	return env
}

func (e *TestEnvironment) buildForall() {
	e.t.Helper()

	binary := filepath.Join(e.tmpDir, "forall")
	if prebuilt := os.Getenv("FORALL_E2E_BINARY"); prebuilt != "" {
		binary = prebuilt
		if _, err := os.Stat(binary); err != nil {
			e.t.Fatalf("Specified forall binary not found: %s", binary)
		}
	} else {
		cmd := exec.Command("go", "build", "-o", binary, "./cmd/forall")
		cmd.Dir = e.findProjectRoot()
		if output, err := cmd.CombinedOutput(); err != nil {
			e.t.Fatalf("Failed to build forall binary: %v\nOutput: %s", err, output)
		}
	}

	binary = filepath.Clean(binary)
	if !filepath.IsAbs(binary) {
		abs, err := filepath.Abs(binary)
		if err != nil {
			e.t.Fatalf("Failed to get absolute path for binary: %v", err)
		}
		binary = abs
	}
	e.forallBinary = binary
}

func (e *TestEnvironment) findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			e.t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}

// Root is the directory forall runs in.
func (e *TestEnvironment) Root() string {
	return e.root
}

// CreatePythonProject creates a committed git repository with a
// pyproject.toml naming it.
func (e *TestEnvironment) CreatePythonProject(name string) *TestProject {
	e.t.Helper()
	return e.createProject(name, "pyproject.toml",
		"[project]\nname = \""+name+"\"\nversion = \"0.1.0\"\n")
}

// CreateRustProject creates a committed git repository with a Cargo.toml
// naming it.
func (e *TestEnvironment) CreateRustProject(name string) *TestProject {
	e.t.Helper()
	return e.createProject(name, "Cargo.toml",
		"[package]\nname = \""+name+"\"\nversion = \"0.1.0\"\n")
}

func (e *TestEnvironment) createProject(name, manifest, content string) *TestProject {
	e.t.Helper()

	dir := filepath.Join(e.root, name)
	e.run(e.root, "git", "init", "-q", "-b", "main", dir)
	e.run(dir, "git", "config", "user.name", "Test User")
	e.run(dir, "git", "config", "user.email", "test@example.com")
	e.writeFile(filepath.Join(dir, manifest), content)
	e.writeFile(filepath.Join(dir, "README.md"), "# "+name+"\n")
	e.run(dir, "git", "add", ".")
	e.run(dir, "git", "commit", "-q", "-m", "Initial commit")

	return &TestProject{env: e, path: dir}
}

// WriteRootFile writes a file directly under the projects root, such as
// .forall.yml or .forall-ignore.
func (e *TestEnvironment) WriteRootFile(name, content string) {
	e.writeFile(filepath.Join(e.root, name), content)
}

// RunForall runs the binary in the projects root. HOME points at the
// environment so no user configuration leaks in.
func (e *TestEnvironment) RunForall(args ...string) Result {
	e.t.Helper()

	cmd := exec.Command(e.forallBinary, args...)
	cmd.Dir = e.root
	cmd.Env = append(os.Environ(), "HOME="+e.tmpDir, "GITHUB_TOKEN=", "GH_TOKEN=")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			e.t.Fatalf("Failed to run forall: %v", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

func (e *TestEnvironment) run(dir, command string, args ...string) string {
	e.t.Helper()

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("Command failed in %s: %s %s\nOutput: %s\nError: %v",
			dir, command, strings.Join(args, " "), output, err)
	}
	return string(output)
}

func (e *TestEnvironment) writeFile(path, content string) {
	e.t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

type TestProject struct {
	env  *TestEnvironment
	path string
}

func (p *TestProject) Path() string {
	return p.path
}

func (p *TestProject) CheckoutNewBranch(name string) {
	p.env.run(p.path, "git", "checkout", "-q", "-b", name)
}

func (p *TestProject) WriteFile(path, content string) {
	p.env.writeFile(filepath.Join(p.path, path), content)
}

func (p *TestProject) HasFile(path string) bool {
	_, err := os.Stat(filepath.Join(p.path, path))
	return err == nil
}

func (p *TestProject) GitStatus() string {
	return p.env.run(p.path, "git", "status", "--porcelain")
}

func (p *TestProject) CurrentBranch() string {
	return strings.TrimSpace(p.env.run(p.path, "git", "branch", "--show-current"))
}

func (p *TestProject) StashCount() int {
	out := strings.TrimSpace(p.env.run(p.path, "git", "stash", "list"))
	if out == "" {
		return 0
	}
	return len(strings.Split(out, "\n"))
}
