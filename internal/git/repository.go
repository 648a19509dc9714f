package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/satococoa/forall/internal/command"
)

// DefaultBranches are the branch names recognised as a project's default,
// in order of preference.
var DefaultBranches = []string{"main", "master"}

// ErrNoDefaultBranch is returned when none of DefaultBranches exists.
var ErrNoDefaultBranch = errors.New("could not determine default branch")

// Repository runs git queries and actions in one work tree through a
// command.Runner, so every invocation is echoed and classified like any other
// command.
type Repository struct {
	path   string
	runner *command.Runner
}

func NewRepository(path string, runner *command.Runner) (*Repository, error) {
	if !isGitRepository(path) {
		return nil, fmt.Errorf("not a git repository: %s", path)
	}
	return &Repository{path: path, runner: runner}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Cmd roots cmd in the repository directory.
func (r *Repository) Cmd(cmd *command.Command) *command.Command {
	return cmd.Dir(r.path)
}

// Run runs cmd in the repository under its kind's policy.
func (r *Repository) Run(cmd *command.Command) error {
	return r.runner.Run(r.Cmd(cmd))
}

// CurrentBranch returns the checked out branch, or "" with a detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	branch, err := r.runner.Output(r.Cmd(command.GitSymbolicRef()))
	if isExit(err, 1) {
		return "", nil
	}
	return branch, err
}

// Branches lists local branch names.
func (r *Repository) Branches() ([]string, error) {
	out, err := r.runner.Output(r.Cmd(command.GitBranchList()))
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// DefaultBranch returns the first of DefaultBranches that exists locally.
func (r *Repository) DefaultBranch() (string, error) {
	branches, err := r.Branches()
	if err != nil {
		return "", err
	}
	for _, guess := range DefaultBranches {
		if slices.Contains(branches, guess) {
			return guess, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrNoDefaultBranch, r.path)
}

// OnDefaultBranch reports whether HEAD is one of DefaultBranches.
func (r *Repository) OnDefaultBranch() (bool, error) {
	current, err := r.CurrentBranch()
	if err != nil {
		return false, err
	}
	return slices.Contains(DefaultBranches, current), nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repository) HasStagedChanges() (bool, error) {
	status, err := r.runner.Status(r.Cmd(command.GitDiffCachedQuiet()))
	if err != nil {
		return false, err
	}
	code, ok := status.Code()
	return ok && code == 1, nil
}

// IsDirty reports whether the work tree has uncommitted changes, including
// untracked files.
func (r *Repository) IsDirty() (bool, error) {
	out, err := r.runner.Output(r.Cmd(command.GitStatusPorcelain()))
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Stash stashes all changes if the work tree is dirty. It reports whether a
// stash was made.
func (r *Repository) Stash() (bool, error) {
	dirty, err := r.IsDirty()
	if err != nil || !dirty {
		return false, err
	}
	if err := r.Run(command.GitStash()); err != nil {
		return false, err
	}
	return true, nil
}

// HasStash reports whether refs/stash exists.
func (r *Repository) HasStash() (bool, error) {
	out, err := r.runner.Output(r.Cmd(command.GitRevParseStash()))
	if isExit(err, 1) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// RemoteURL returns the URL of remote, or "" when it is not configured.
func (r *Repository) RemoteURL(remote string) (string, error) {
	url, err := r.runner.Output(r.Cmd(command.GitRemoteGetURL(remote)))
	var exitErr *command.ExitError
	if errors.As(err, &exitErr) {
		return "", nil
	}
	return url, err
}

// AheadCount returns how many commits HEAD has that its upstream lacks.
// Unparseable output counts as zero.
func (r *Repository) AheadCount() (int, error) {
	out, err := r.runner.Output(r.Cmd(command.GitRevListAhead()))
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(out)
	if convErr != nil {
		return 0, nil
	}
	return n, nil
}

// CleanPreview lists what `git clean -dXf` would remove.
func (r *Repository) CleanPreview() ([]string, error) {
	out, err := r.runner.Output(r.Cmd(command.GitCleanPreview()))
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

func isExit(err error, code int) bool {
	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	c, ok := exitErr.Status.Code()
	return ok && c == code
}

func lines(out string) []string {
	var result []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

func isGitRepository(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// IsRepository reports whether path is the top of a git work tree.
func IsRepository(path string) bool {
	return isGitRepository(path)
}
