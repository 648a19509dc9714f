package e2e

import (
	"testing"

	"github.com/satococoa/forall/test/e2e/framework"
)

func TestRunCommand(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	alpha := env.CreatePythonProject("alpha")
	env.CreatePythonProject("beta")
	gamma := env.CreatePythonProject("gamma")

	t.Run("RunsInEveryProject", func(t *testing.T) {
		res := env.RunForall("-v", "run", "--", "touch", "marker")
		framework.AssertSuccess(t, res)
		framework.AssertFileExists(t, alpha, "marker")
		framework.AssertFileExists(t, gamma, "marker")
		framework.AssertOutputContains(t, res.Stderr, "alpha\n")
		framework.AssertOutputContains(t, res.Stderr, "+touch marker")
	})

	t.Run("FlagsAfterTheProgramAreItsOwn", func(t *testing.T) {
		res := env.RunForall("-v", "--skip", "beta", "--skip", "gamma", "run", "echo", "--shell", "-k")
		framework.AssertSuccess(t, res)
		framework.AssertEqual(t, "--shell -k\n", res.Stdout)
	})

	t.Run("StopsAtFirstFailure", func(t *testing.T) {
		res := env.RunForall("run", "--shell", "--", `test "$FORALL_PROJECT_NAME" != beta && touch stopped`)
		framework.AssertExitCode(t, res, 1)
		framework.AssertFileExists(t, alpha, "stopped")
		framework.AssertFileNotExists(t, gamma, "stopped")
	})

	t.Run("KeepGoingSummarizesFailures", func(t *testing.T) {
		res := env.RunForall("-k", "run", "--shell", "--", `test "$FORALL_PROJECT_NAME" != beta && touch kept`)
		framework.AssertExitCode(t, res, 1)
		framework.AssertFileExists(t, gamma, "kept")
		framework.AssertFailures(t, res, "beta")
		framework.AssertOutputNotContains(t, res.Stderr, "forall:")
	})

	t.Run("Stash", func(t *testing.T) {
		alpha.WriteFile("README.md", "# changed\n")
		res := env.RunForall("--skip", "beta", "--skip", "gamma", "run", "--stash", "--", "true")
		framework.AssertSuccess(t, res)
		framework.AssertEqual(t, 1, alpha.StashCount())
	})
}

func TestQuietTranscript(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	env.CreatePythonProject("solo")

	t.Run("HiddenOnSuccess", func(t *testing.T) {
		res := env.RunForall("-q", "run", "--", "echo", "hidden")
		framework.AssertSuccess(t, res)
		framework.AssertOutputNotContains(t, res.Stdout, "hidden")
	})

	t.Run("ShownOnFailure", func(t *testing.T) {
		res := env.RunForall("-q", "run", "--shell", "--", "printf 'sh%sn\\n' ow; exit 3")
		framework.AssertExitCode(t, res, 1)
		framework.AssertOutputContains(t, res.Stderr, "shown\n")
	})
}

func TestFatalErrors(t *testing.T) {
	env := framework.NewTestEnvironment(t)

	t.Run("MissingRoot", func(t *testing.T) {
		res := env.RunForall("--root", env.Root()+"/missing", "list")
		framework.AssertExitCode(t, res, 1)
		framework.AssertOutputContains(t, res.Stderr, "failed to read projects under")
		framework.AssertHelpfulError(t, res.Stderr)
	})

	t.Run("MissingCommand", func(t *testing.T) {
		res := env.RunForall("run")
		framework.AssertExitCode(t, res, 1)
		framework.AssertOutputContains(t, res.Stderr, "a command to run is required")
	})

	t.Run("BadConfig", func(t *testing.T) {
		env.WriteRootFile(".forall.yml", "quiet: 7\n")
		t.Cleanup(func() { env.WriteRootFile(".forall.yml", "") })

		res := env.RunForall("list")
		framework.AssertExitCode(t, res, 1)
		framework.AssertOutputContains(t, res.Stderr, "failed to load configuration")
	})
}
