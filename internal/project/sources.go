package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/satococoa/forall/internal/command"
)

var sourceTargetKinds = []string{"lib", "bin", "proc-macro"}

// SourcePaths returns the paths holding the project's own sources. Python
// projects use src/ when present and otherwise their top-level *.py files,
// relative to the project directory. Rust projects use the directories of
// their library, binary and proc-macro targets as reported by cargo.
func (p *Project) SourcePaths(runner *command.Runner) ([]string, error) {
	if p.language == Rust {
		return p.cargoSourceDirs(runner)
	}

	hasSrc, err := p.Exists("src")
	if err != nil {
		return nil, err
	}
	if hasSrc {
		return []string{"src"}, nil
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	var srcs []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".py") {
			srcs = append(srcs, entry.Name())
		}
	}
	return srcs, nil
}

// CargoMetadata builds the cargo query used for Rust source paths
func CargoMetadata(manifestPath string) *command.Command {
	return command.New("cargo").
		AddArgs("metadata", "--no-deps", "--format-version", "1", "--manifest-path", manifestPath).
		WithKind(command.KindInternal)
}

func (p *Project) cargoSourceDirs(runner *command.Runner) ([]string, error) {
	out, err := runner.Output(p.Cmd(CargoMetadata(filepath.Join(p.dir, CargoFile))))
	if err != nil {
		return nil, fmt.Errorf("failed to get project metadata: %w", err)
	}
	return sourceDirsFromMetadata(out, p.name)
}

func sourceDirsFromMetadata(metadata, project string) ([]string, error) {
	if !gjson.Valid(metadata) {
		return nil, fmt.Errorf("cargo metadata for %s is not valid JSON", project)
	}

	var dirs []string
	var walkErr error
	gjson.Get(metadata, "packages.#.targets|@flatten").ForEach(func(_, target gjson.Result) bool {
		wanted := false
		for _, kind := range target.Get("kind").Array() {
			if slices.Contains(sourceTargetKinds, kind.String()) {
				wanted = true
				break
			}
		}
		if !wanted {
			return true
		}
		srcPath := target.Get("src_path").String()
		if srcPath == "" {
			walkErr = fmt.Errorf("could not determine parent directory of target %q for project %s", target.Get("name").String(), project)
			return false
		}
		if dir := filepath.Dir(srcPath); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	slices.Sort(dirs)
	return dirs, nil
}
