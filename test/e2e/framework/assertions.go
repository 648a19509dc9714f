package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccess(t *testing.T, res Result) {
	t.Helper()
	assert.Equal(t, 0, res.ExitCode, "Expected success, stderr: %s", res.Stderr)
}

func AssertExitCode(t *testing.T, res Result, expected int) {
	t.Helper()
	assert.Equal(t, expected, res.ExitCode, "Expected exit code %d, stderr: %s", expected, res.Stderr)
}

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output without '%s', got: %s", unexpected, output)
}

// AssertHelpfulError checks that a fatal error came with guidance.
func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Solutions:",
		"Cause:",
		"Tip:",
		"•",
	}
	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			return
		}
	}
	t.Errorf("Error message does not appear to be helpful. Got: %s", output)
}

// AssertFailures checks the summary printed after a keep-going batch.
func AssertFailures(t *testing.T, res Result, names ...string) {
	t.Helper()
	assert.Contains(t, res.Stderr, "\nFailures:\n"+strings.Join(names, "\n")+"\n")
}

// AssertProjects checks the names printed by `forall list`, in order.
func AssertProjects(t *testing.T, res Result, names ...string) {
	t.Helper()
	want := ""
	if len(names) > 0 {
		want = strings.Join(names, "\n") + "\n"
	}
	assert.Equal(t, want, res.Stdout)
}

func AssertFileExists(t *testing.T, p *TestProject, path string) {
	t.Helper()
	assert.True(t, p.HasFile(path), "Expected file '%s' to exist", path)
}

func AssertFileNotExists(t *testing.T, p *TestProject, path string) {
	t.Helper()
	assert.False(t, p.HasFile(path), "Expected file '%s' not to exist", path)
}

func AssertCurrentBranch(t *testing.T, p *TestProject, expected string) {
	t.Helper()
	current := p.CurrentBranch()
	assert.Equal(t, expected, current, "Expected current branch to be '%s', got: '%s'", expected, current)
}

func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	assert.Equal(t, expected, actual)
}
