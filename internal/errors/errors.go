package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common error messages with helpful context and suggestions

// friendlyError carries a user-facing message and the error that caused it.
// The cause is not part of Error(); Report prints it as a "Caused by:" chain.
type friendlyError struct {
	msg   string
	cause error
}

func (e *friendlyError) Error() string { return e.msg }
func (e *friendlyError) Unwrap() error { return e.cause }

func wrap(cause error, msg string) error {
	return &friendlyError{msg: msg, cause: cause}
}

// Discovery Errors
func RootAccessFailed(root string, originalError error) error {
	msg := fmt.Sprintf("failed to read projects under: %s", root)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Check directory permissions
  • Add the unreadable directory to .forall-ignore`
	} else if strings.Contains(errorStr, "no such file or directory") {
		msg += `

Cause: Directory does not exist
Solutions:
  • Check the path passed to --root
  • Run forall from the directory that holds your projects`
	} else if strings.Contains(errorStr, "not a directory") {
		msg += `

Cause: The root is a file, not a directory`
	}

	return wrap(originalError, msg)
}

func ManifestParseFailed(path string, parseError error) error {
	msg := fmt.Sprintf(`failed to parse project manifest: %s

Tip: Run 'forall' with --skip to leave this project out until it is fixed`, path)
	return wrap(parseError, msg)
}

func ProjectNameMissing(path string) error {
	msg := fmt.Sprintf(`could not determine project name for %s

Cause: Virtual workspace without [workspace.package].repository
Solution: Set repository = "https://github.com/OWNER/NAME" in the workspace manifest`, path)
	return errors.New(msg)
}

func InvalidLanguage(value string) error {
	return fmt.Errorf("invalid language: %q (expected python, py, rust or rs)", value)
}

// Configuration Errors
func ConfigLoadFailed(configPath string, parseError error) error {
	msg := fmt.Sprintf("failed to load configuration from '%s'", configPath)

	parseErrorStr := parseError.Error()
	if strings.Contains(parseErrorStr, "yaml") || strings.Contains(parseErrorStr, "unmarshal") {
		msg += `

Cause: YAML syntax error in configuration file
Solutions:
  • Check YAML syntax and indentation
  • Validate YAML at https://yamllint.com/`
	} else if strings.Contains(parseErrorStr, "permission denied") {
		msg += `

Cause: Permission denied reading configuration file
Solution: Check file permissions with 'ls -la .forall.yml'`
	}

	return wrap(parseError, msg)
}


// Usage Errors
func CommandRequired(commandExample string) error {
	msg := fmt.Sprintf(`a command to run is required

Usage: %s

Examples:
  • forall run -- git status --short
  • forall run --shell 'make lint && make test'
  • forall run --script ./bump-version.pl 1.2.0`, commandExample)
	return errors.New(msg)
}

func ConflictingModes() error {
	return errors.New(`--shell and --script cannot be used together

Tip: Put the shell pipeline in a script file, or run it with --shell alone`)
}

func ConflictingFlags(first, second string) error {
	return fmt.Errorf("%s and %s cannot be used together", first, second)
}

func InvalidUsage(command string, parseError error) error {
	msg := fmt.Sprintf(`%v

Tip: Run '%s --help' for usage`, parseError, command)
	return wrap(parseError, msg)
}

func SelectNeedsTerminal() error {
	return errors.New(`--select needs an interactive terminal

Tip: Use --skip or --filter to narrow the projects in scripts`)
}

func PRMessageRequired() error {
	msg := `a commit message is required

Usage: forall runpr --message MESSAGE -- COMMAND [ARG...]

Tip: The message also becomes the pull request title unless --pr-title is given`
	return errors.New(msg)
}

func NoProjectsSelected() error {
	return errors.New("no projects selected")
}

// Project Errors
func ProjectOperationFailed(project, operation string, originalError error) error {
	return wrap(originalError, fmt.Sprintf("%s: failed to %s", project, operation))
}

// GitHub Errors
func GitHubTokenMissing(originalError error) error {
	msg := `GitHub access token not found

Solutions:
  • Set GH_TOKEN or GITHUB_TOKEN
  • Log in with 'gh auth login' so that 'gh auth token' works`
	return wrap(originalError, msg)
}
