package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_NonExistentFile(t *testing.T) {
	tempDir := t.TempDir()

	config, err := LoadConfig(tempDir)
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, config.Version)
	assert.False(t, config.KeepGoing)
	assert.Empty(t, config.Skip)
	assert.Empty(t, config.Path())
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tempDir := t.TempDir()
	configContent := `version: "1.0"
shell: /bin/bash
keep_going: true
quiet: 1
skip:
  - scratch
  - archived-tool
log_file: logs/forall.log
runpr:
  labels:
    - dependencies
  soft_labels:
    - automerge
`
	configPath := filepath.Join(tempDir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	config, err := LoadConfig(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "/bin/bash", config.Shell)
	assert.True(t, config.KeepGoing)
	assert.Equal(t, 1, config.Quiet)
	assert.Equal(t, []string{"scratch", "archived-tool"}, config.Skip)
	assert.Equal(t, []string{"dependencies"}, config.RunPR.Labels)
	assert.Equal(t, []string{"automerge"}, config.RunPR.SoftLabels)
	assert.Equal(t, configPath, config.Path())
	assert.Equal(t, filepath.Join(tempDir, "logs/forall.log"), config.ResolveLogFile(tempDir))
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("skip: [unterminated\n"), 0o600))

	_, err := LoadConfig(tempDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFile_Required(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError string
	}{
		{name: "defaults", config: Config{}},
		{name: "quiet twice", config: Config{Quiet: 2}},
		{name: "quiet out of range", config: Config{Quiet: 3}, expectError: "quiet must be between 0 and 2"},
		{name: "quiet and verbose", config: Config{Quiet: 1, Verbose: true}, expectError: "cannot both be set"},
		{name: "empty skip", config: Config{Skip: []string{"a", " "}}, expectError: "skip entry 2 is empty"},
		{name: "empty label", config: Config{RunPR: RunPR{SoftLabels: []string{""}}}, expectError: "runpr label 1 is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, CurrentVersion, tt.config.Version)
		})
	}
}

func TestShellOrDefault(t *testing.T) {
	t.Run("configured shell wins", func(t *testing.T) {
		t.Setenv("SHELL", "/bin/zsh")
		c := &Config{Shell: "/bin/bash"}
		assert.Equal(t, "/bin/bash", c.ShellOrDefault())
	})

	t.Run("falls back to SHELL", func(t *testing.T) {
		t.Setenv("SHELL", "/bin/zsh")
		assert.Equal(t, "/bin/zsh", (&Config{}).ShellOrDefault())
	})

	t.Run("falls back to sh", func(t *testing.T) {
		t.Setenv("SHELL", "")
		assert.Equal(t, "sh", (&Config{}).ShellOrDefault())
	})
}

func TestResolveLogFile(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Empty(t, (&Config{}).ResolveLogFile("/src"))
	assert.Equal(t, "/var/log/forall.log", (&Config{LogFile: "/var/log/forall.log"}).ResolveLogFile("/src"))
	assert.Equal(t, filepath.Join(home, "forall.log"), (&Config{LogFile: "~/forall.log"}).ResolveLogFile("/src"))
}
