package command

import (
	"errors"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// classify maps a finished process to success or an Error. Captured text is
// only required to be valid UTF-8 when the process succeeded; a failing
// command's transcript is kept with invalid bytes replaced so that it can
// still be shown.
func classify(line CommandLine, out Outcome, raw capturedBytes) (Outcome, error) {
	if !out.Status.Success() {
		out.Stdout = lossy(raw.stdout)
		out.Stderr = lossy(raw.stderr)
		out.Combined = lossy(raw.combined)
		return out, &ExitError{Line: line, Status: out.Status, Output: out}
	}
	var err error
	if out.Stdout, err = decode(line, StreamStdout, raw.stdout); err != nil {
		return out, err
	}
	if out.Stderr, err = decode(line, StreamStderr, raw.stderr); err != nil {
		return out, err
	}
	// The merged transcript has no single origin; report it as stdout.
	if out.Combined, err = decode(line, StreamStdout, raw.combined); err != nil {
		return out, err
	}
	return out, nil
}

// capturedBytes holds undecoded captured output.
type capturedBytes struct {
	stdout   []byte
	stderr   []byte
	combined []byte
}

func decode(line CommandLine, stream Stream, b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	return "", &DecodeError{Line: line, Stream: stream, Offset: firstInvalid(b)}
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}

// waitStatus interprets the error returned by exec.Cmd.Wait (or Run after a
// successful Start). copyStream names the stream to blame when exec's own
// output copying failed.
func waitStatus(line CommandLine, cmd *exec.Cmd, err error, copyStream Stream) (ExitStatus, error) {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return statusFromState(cmd.ProcessState), nil
	case errors.As(err, &exitErr):
		return statusFromState(exitErr.ProcessState), nil
	case cmd.ProcessState == nil:
		return ExitStatus{}, &WaitError{Line: line, Err: err}
	default:
		return statusFromState(cmd.ProcessState), &DrainError{Line: line, Stream: copyStream, Err: err}
	}
}
