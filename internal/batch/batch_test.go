package batch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satococoa/forall/internal/command"
)

type fakeProject string

func (f fakeProject) Name() string { return string(f) }

type recordingReporter struct {
	errors   []string
	failures []string
	reported bool
}

func (r *recordingReporter) Error(msg string, _ ...any) {
	r.errors = append(r.errors, msg)
}

func (r *recordingReporter) Failures(names []string) {
	r.reported = true
	r.failures = names
}

var five = []fakeProject{"p1", "p2", "p3", "p4", "p5"}

func exitErr(code int) error {
	return &command.ExitError{Line: command.Render("make", nil, ""), Status: command.Exited(code)}
}

// failThird runs an operation that fails on p3 and records visits
func failThird(visited *[]string, err error) func(fakeProject) error {
	return func(p fakeProject) error {
		*visited = append(*visited, p.Name())
		if p == "p3" {
			return err
		}
		return nil
	}
}

func TestEach_KeepGoing(t *testing.T) {
	t.Run("nonzero exit is recorded and the batch continues", func(t *testing.T) {
		// Given: keep-going and a project whose command exits 3
		report := &recordingReporter{}
		runner := NewRunner(true, report)
		var visited []string

		// When: running the batch
		result, err := Each(runner, five, failThird(&visited, exitErr(3)))

		// Then: every project ran, p3 is the only failure and its code was shown
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, visited)
		assert.Equal(t, []string{"p3"}, result.Failed)
		assert.Equal(t, []string{"[3]"}, report.errors)
		assert.Equal(t, []string{"p3"}, report.failures)
		assert.False(t, result.OK())

		var failuresErr *FailuresError
		require.ErrorAs(t, result.Err(), &failuresErr)
		assert.Equal(t, "1 project failed", failuresErr.Error())
	})

	t.Run("project failures are tolerated", func(t *testing.T) {
		report := &recordingReporter{}
		var visited []string

		result, err := Each(NewRunner(true, report), five, failThird(&visited, Fail("p3", "no source files")))

		require.NoError(t, err)
		assert.Len(t, visited, 5)
		assert.Equal(t, []string{"p3: no source files"}, report.errors)
		assert.Equal(t, []string{"p3"}, result.Failed)
	})

	t.Run("wrapped exit errors are tolerated", func(t *testing.T) {
		var visited []string

		result, err := Each(NewRunner(true, &recordingReporter{}), five, failThird(&visited, fmt.Errorf("pull: %w", exitErr(1))))

		require.NoError(t, err)
		assert.Equal(t, []string{"p3"}, result.Failed)
	})

	t.Run("startup failure aborts", func(t *testing.T) {
		report := &recordingReporter{}
		var visited []string
		startErr := &command.StartupError{Line: command.Render("pre-commit", nil, ""), Err: errors.New("executable file not found in $PATH")}

		_, err := Each(NewRunner(true, report), five, failThird(&visited, startErr))

		assert.ErrorIs(t, err, startErr)
		assert.Equal(t, []string{"p1", "p2", "p3"}, visited)
		assert.False(t, report.reported, "no summary after a fatal error")
	})

	t.Run("decode failure aborts", func(t *testing.T) {
		var visited []string
		decodeErr := &command.DecodeError{Line: command.Render("cat", nil, ""), Stream: command.StreamStdout}

		_, err := Each(NewRunner(true, &recordingReporter{}), five, failThird(&visited, decodeErr))

		assert.ErrorIs(t, err, decodeErr)
		assert.Len(t, visited, 3)
	})

	t.Run("other errors abort", func(t *testing.T) {
		var visited []string
		boom := errors.New("permission denied")

		_, err := Each(NewRunner(true, &recordingReporter{}), five, failThird(&visited, boom))

		assert.ErrorIs(t, err, boom)
		assert.Len(t, visited, 3)
	})
}

func TestEach_NoKeepGoing(t *testing.T) {
	report := &recordingReporter{}
	var visited []string

	result, err := Each(NewRunner(false, report), five, failThird(&visited, exitErr(3)))

	var got *command.ExitError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, []string{"p1", "p2", "p3"}, visited)
	assert.Empty(t, result.Failed)
	assert.Empty(t, report.errors)
}

func TestEach_AllSucceed(t *testing.T) {
	report := &recordingReporter{}

	result, err := Each(NewRunner(true, report), five, func(fakeProject) error { return nil })

	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.NoError(t, result.Err())
	assert.Empty(t, report.failures)
}

func TestFailuresError(t *testing.T) {
	assert.Equal(t, "2 projects failed", (&FailuresError{Projects: []string{"a", "b"}}).Error())
}

type failingExecutor struct {
	dirs []string
}

func (f *failingExecutor) Execute(c command.Command) (command.Outcome, error) {
	f.dirs = append(f.dirs, c.WorkDir)
	if c.WorkDir == "/src/p3" {
		return command.Outcome{}, &command.ExitError{Line: c.Line(), Status: command.Exited(3)}
	}
	return command.Outcome{Status: command.Exited(0)}, nil
}

func TestRunEach(t *testing.T) {
	exec := &failingExecutor{}
	cmds := command.NewRunner(command.LevelOff, command.WithExecutor(exec))
	report := &recordingReporter{}

	result, err := RunEach(NewRunner(true, report), cmds, five, func(p fakeProject) *command.Command {
		return command.GitGC().Dir("/src/" + p.Name())
	})

	require.NoError(t, err)
	assert.Len(t, exec.dirs, 5)
	assert.Equal(t, []string{"p3"}, result.Failed)
	assert.Equal(t, []string{"[3]"}, report.errors)
}
