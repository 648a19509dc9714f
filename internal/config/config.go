package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Config represents the forall configuration
type Config struct {
	Version   string   `yaml:"version"`
	Shell     string   `yaml:"shell,omitempty"`
	KeepGoing bool     `yaml:"keep_going,omitempty"`
	Quiet     int      `yaml:"quiet,omitempty"`
	Verbose   bool     `yaml:"verbose,omitempty"`
	Skip      []string `yaml:"skip,omitempty"`
	LogFile   string   `yaml:"log_file,omitempty"`
	RunPR     RunPR    `yaml:"runpr,omitempty"`

	// Internal field: where the configuration was read from (not in YAML)
	path string `yaml:"-"`
}

// RunPR holds defaults for `forall runpr`
type RunPR struct {
	Labels     []string `yaml:"labels,omitempty"`
	SoftLabels []string `yaml:"soft_labels,omitempty"`
}

const (
	ConfigFileName = ".forall.yml"
	CurrentVersion = "1.0"
	DefaultShell   = "sh"
	maxQuiet       = 2
)

// LoadConfig loads .forall.yml from the root directory. A missing file yields
// the defaults.
func LoadConfig(root string) (*Config, error) {
	return LoadConfigFile(filepath.Join(root, ConfigFileName), true)
}

// LoadConfigFile loads configuration from path. When optional is set a
// missing file yields the defaults instead of an error.
func LoadConfigFile(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return &Config{Version: CurrentVersion}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.path = path
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}

	if c.Quiet < 0 || c.Quiet > maxQuiet {
		return fmt.Errorf("quiet must be between 0 and %d, got %d", maxQuiet, c.Quiet)
	}
	if c.Verbose && c.Quiet > 0 {
		return fmt.Errorf("verbose and quiet cannot both be set")
	}

	for i, name := range c.Skip {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("skip entry %d is empty", i+1)
		}
	}

	for _, group := range [][]string{c.RunPR.Labels, c.RunPR.SoftLabels} {
		for i, label := range group {
			if strings.TrimSpace(label) == "" {
				return fmt.Errorf("runpr label %d is empty", i+1)
			}
		}
	}

	return nil
}

// Path returns the file the configuration was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// ShellOrDefault returns the shell used for --filter and --shell commands:
// the configured shell, then $SHELL, then sh.
func (c *Config) ShellOrDefault() string {
	if c.Shell != "" {
		return c.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return DefaultShell
}

// ResolveLogFile expands a leading ~ and makes a relative log path relative
// to root.
func (c *Config) ResolveLogFile(root string) string {
	path := c.LogFile
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return path
}
