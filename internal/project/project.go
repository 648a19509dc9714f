// Package project models a Python or Rust project checked out in its own git
// repository.
package project

import (
	"os"
	"path/filepath"

	"github.com/satococoa/forall/internal/command"
	"github.com/satococoa/forall/internal/git"
	"github.com/satococoa/forall/internal/github"
)

// Project is a directory with a git repository and a recognised manifest
type Project struct {
	dir                string
	name               string
	language           Language
	isWorkspace        bool
	isVirtualWorkspace bool
	ghRepo             *github.Repo
	repo               *git.Repository
}

// Load inspects dir and returns the project it holds, or nil when dir has
// neither pyproject.toml nor Cargo.toml. pyproject.toml wins when both exist.
func Load(dir string, runner *command.Runner) (*Project, error) {
	m, found, err := readManifest(dir)
	if err != nil || !found {
		return nil, err
	}

	repo, err := git.NewRepository(dir, runner)
	if err != nil {
		return nil, err
	}
	url, err := repo.RemoteURL("origin")
	if err != nil {
		return nil, err
	}

	p := &Project{
		dir:                dir,
		name:               m.name,
		language:           m.language,
		isWorkspace:        m.isWorkspace,
		isVirtualWorkspace: m.isVirtualWorkspace,
		repo:               repo,
	}
	if gh, ok := github.ParseRemoteURL(url); ok {
		p.ghRepo = &gh
	}
	return p, nil
}

func readManifest(dir string) (manifest, bool, error) {
	for _, candidate := range []struct {
		file  string
		parse func(string) (manifest, error)
	}{
		{PyprojectFile, parsePyproject},
		{CargoFile, parseCargo},
	} {
		path := filepath.Join(dir, candidate.file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return manifest{}, false, err
		}
		m, err := candidate.parse(path)
		return m, err == nil, err
	}
	return manifest{}, false, nil
}

func (p *Project) Name() string { return p.name }
func (p *Project) Dir() string { return p.dir }
func (p *Project) Language() Language { return p.language }
func (p *Project) IsWorkspace() bool { return p.isWorkspace }
func (p *Project) IsVirtualWorkspace() bool { return p.isVirtualWorkspace }
func (p *Project) Repo() *git.Repository { return p.repo }
func (p *Project) HasGitHub() bool { return p.ghRepo != nil }
func (p *Project) GitHubRepo() (github.Repo, bool) {
	if p.ghRepo == nil {
		return github.Repo{}, false
	}
	return *p.ghRepo, true
}

// Cmd roots cmd in the project directory.
func (p *Project) Cmd(cmd *command.Command) *command.Command {
	return cmd.Dir(p.dir)
}

// Exists reports whether a path relative to the project directory exists.
func (p *Project) Exists(rel string) (bool, error) {
	_, err := os.Stat(filepath.Join(p.dir, rel))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Details is the machine-readable description printed by `list --json`
type Details struct {
	Name               string       `json:"name"`
	Dir                string       `json:"dirpath"`
	Language           Language     `json:"language"`
	GitHub             *github.Repo `json:"ghrepo"`
	OnDefaultBranch    bool         `json:"on_default_branch"`
	IsWorkspace        bool         `json:"is_workspace"`
	IsVirtualWorkspace bool         `json:"is_virtual_workspace"`
}

// Details queries git for the live parts of the description.
func (p *Project) Details() (Details, error) {
	onDefault, err := p.repo.OnDefaultBranch()
	if err != nil {
		return Details{}, err
	}
	return Details{
		Name:               p.name,
		Dir:                p.dir,
		Language:           p.language,
		GitHub:             p.ghRepo,
		OnDefaultBranch:    onDefault,
		IsWorkspace:        p.isWorkspace,
		IsVirtualWorkspace: p.isVirtualWorkspace,
	}, nil
}
