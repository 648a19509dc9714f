// Package finder discovers the projects forall operates on.
package finder

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"syscall"

	"github.com/caarlos0/go-shellwords"

	"github.com/satococoa/forall/internal/command"
	forallerrors "github.com/satococoa/forall/internal/errors"
	"github.com/satococoa/forall/internal/git"
	"github.com/satococoa/forall/internal/invocation"
	"github.com/satococoa/forall/internal/project"
)

// IgnoreFile lists, one per line, entries of its directory to leave out.
const IgnoreFile = ".forall-ignore"

// Options narrows the set of projects found
type Options struct {
	// Root is the directory to traverse. It defaults to the working directory.
	Root string
	// Skip names projects to leave out.
	Skip []string
	// DefaultBranch, when set, keeps only projects whose HEAD is (true) or is
	// not (false) on their default branch.
	DefaultBranch *bool
	// Filter is a shell command; only projects where it succeeds are kept.
	Filter string
	// Shell runs Filter. It defaults to sh.
	Shell string
}

// Finder walks a directory tree for projects
type Finder struct {
	opts   Options
	runner *command.Runner
}

func New(runner *command.Runner, opts Options) (*Finder, error) {
	if opts.Filter != "" {
		if _, err := shellwords.Parse(opts.Filter); err != nil {
			return nil, fmt.Errorf("invalid --filter command %q: %w", opts.Filter, err)
		}
	}
	if opts.Shell == "" {
		opts.Shell = "sh"
	}
	if opts.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine current directory: %w", err)
		}
		opts.Root = wd
	}
	return &Finder{opts: opts, runner: runner}, nil
}

// Root returns the directory being traversed.
func (f *Finder) Root() string {
	return f.opts.Root
}

// FindAll returns every accepted project under the root, sorted by name.
func (f *Finder) FindAll() ([]*project.Project, error) {
	projects, err := f.find(f.opts.Root)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Name() < projects[j].Name()
	})
	return projects, nil
}

func (f *Finder) find(dir string) ([]*project.Project, error) {
	exclude, err := readIgnoreFile(filepath.Join(dir, IgnoreFile))
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, forallerrors.RootAccessFailed(dir, err)
	}

	var projects []*project.Project
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || exclude[name] || !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, name)
		if !git.IsRepository(sub) {
			found, err := f.find(sub)
			if err != nil {
				return nil, err
			}
			projects = append(projects, found...)
			continue
		}

		p, err := project.Load(sub, f.runner)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		ok, err := f.accept(p)
		if err != nil {
			return nil, err
		}
		if ok {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (f *Finder) accept(p *project.Project) (bool, error) {
	if slices.Contains(f.opts.Skip, p.Name()) {
		return false, nil
	}
	if f.opts.DefaultBranch != nil {
		on, err := p.Repo().OnDefaultBranch()
		if err != nil {
			return false, err
		}
		if on != *f.opts.DefaultBranch {
			return false, nil
		}
	}
	if f.opts.Filter != "" {
		cmd := command.New(f.opts.Shell).AddArgs("-c", f.opts.Filter).WithKind(command.KindInternal)
		return f.runner.Check(invocation.WithProjectEnv(cmd, p))
	}
	return true, nil
}

func readIgnoreFile(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	exclude := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		exclude[scanner.Text()] = true
	}
	return exclude, scanner.Err()
}
