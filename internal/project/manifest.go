package project

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	forallerrors "github.com/satococoa/forall/internal/errors"
	"github.com/satococoa/forall/internal/github"
)

const (
	PyprojectFile = "pyproject.toml"
	CargoFile     = "Cargo.toml"
)

type nameTable struct {
	Name string `toml:"name"`
}

type pyproject struct {
	Project *nameTable `toml:"project"`
}

type cargoManifest struct {
	Package   *nameTable `toml:"package"`
	Workspace *struct {
		Package struct {
			Repository string `toml:"repository"`
		} `toml:"package"`
	} `toml:"workspace"`
}

// manifest is what a project's build file says about it
type manifest struct {
	name               string
	language           Language
	isWorkspace        bool
	isVirtualWorkspace bool
}

func parsePyproject(path string) (manifest, error) {
	var data pyproject
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return manifest{}, forallerrors.ManifestParseFailed(path, err)
	}
	if data.Project == nil || data.Project.Name == "" {
		return manifest{}, forallerrors.ManifestParseFailed(path, errors.New("missing [project].name"))
	}
	return manifest{name: data.Project.Name, language: Python}, nil
}

func parseCargo(path string) (manifest, error) {
	var data cargoManifest
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return manifest{}, forallerrors.ManifestParseFailed(path, err)
	}

	m := manifest{language: Rust, isWorkspace: data.Workspace != nil}
	switch {
	case data.Package != nil:
		if data.Package.Name == "" {
			return manifest{}, forallerrors.ManifestParseFailed(path, errors.New("missing [package].name"))
		}
		m.name = data.Package.Name
	case data.Workspace != nil:
		m.isVirtualWorkspace = true
		url := data.Workspace.Package.Repository
		if url == "" {
			return manifest{}, forallerrors.ProjectNameMissing(path)
		}
		repo, err := github.ParseRepo(url)
		if err != nil {
			return manifest{}, forallerrors.ManifestParseFailed(path, fmt.Errorf("workspace.package.repository: %w", err))
		}
		m.name = repo.Name
	default:
		return manifest{}, forallerrors.ManifestParseFailed(path, errors.New("lacks both [package] and [workspace] tables"))
	}
	return m, nil
}
