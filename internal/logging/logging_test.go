package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satococoa/forall/internal/command"
)

var noColor = new(bool)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level   command.Level
		project bool
		request bool
	}{
		{command.LevelOff, false, false},
		{command.LevelQuiet, true, false},
		{command.LevelNormal, true, true},
		{command.LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var out bytes.Buffer
			log := New(&out, tt.level, Options{Color: noColor})

			log.Project("foo")
			log.Request("GET", "https://api.github.com/repos/o/r")

			assert.Equal(t, tt.project, strings.Contains(out.String(), "foo\n"))
			assert.Equal(t, tt.request, strings.Contains(out.String(), "GET https://api.github.com/repos/o/r\n"))
		})
	}
}

func TestLogger_Command(t *testing.T) {
	var out bytes.Buffer
	log := New(&out, command.LevelNormal, Options{Color: noColor})

	log.Command(command.Render("git", []string{"commit", "-m", "it's done"}, "/src/foo"))

	assert.Equal(t, "+git commit -m 'it'\"'\"'s done' [cwd=/src/foo]\n", out.String())
}

func TestLogger_Color(t *testing.T) {
	var out bytes.Buffer
	on := true
	log := New(&out, command.LevelNormal, Options{Color: &on})

	log.Project("foo")

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "foo")
}

func TestLogger_Failures(t *testing.T) {
	t.Run("prints names under a header", func(t *testing.T) {
		var out bytes.Buffer
		log := New(&out, command.LevelNormal, Options{Color: noColor})

		log.Failures([]string{"bar", "baz"})

		assert.Equal(t, "\nFailures:\nbar\nbaz\n", out.String())
	})

	t.Run("prints nothing without failures", func(t *testing.T) {
		var out bytes.Buffer
		log := New(&out, command.LevelNormal, Options{Color: noColor})

		log.Failures(nil)

		assert.Empty(t, out.String())
	})
}

func TestLogger_FileLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forall.log")
	var out bytes.Buffer
	log := New(&out, command.LevelOff, Options{Color: noColor, LogFile: path})

	log.Project("foo")
	log.Command(command.Render("git", []string{"gc"}, "/src/foo"))
	require.NoError(t, log.Close())

	assert.Empty(t, out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "+git gc [cwd=/src/foo]", rec["msg"])
	assert.Equal(t, "command", rec["class"])
	assert.Equal(t, "/src/foo", rec["dir"])
}
