package command

import (
	"io"
	"os"
	"os/exec"

	forallio "github.com/satococoa/forall/internal/io"
)

// processExecutor implements Executor with os/exec
type processExecutor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewProcessExecutor creates an executor that spawns real processes. Inherit
// mode reads the process's own stdin and writes to its stdout and stderr.
func NewProcessExecutor() Executor {
	return NewProcessExecutorWithStreams(os.Stdout, os.Stderr)
}

// NewProcessExecutorWithStreams creates an executor whose inherit mode writes
// to the given streams unless a Command supplies its own. Children still read
// the process's stdin.
func NewProcessExecutorWithStreams(stdout, stderr io.Writer) Executor {
	return &processExecutor{stdin: os.Stdin, stdout: stdout, stderr: stderr}
}

// Execute runs cmd to completion in cmd.Mode.
func (e *processExecutor) Execute(c Command) (Outcome, error) {
	line := c.Line()
	switch c.Mode {
	case ModeCaptureSeparate:
		return e.capture(c, line, false)
	case ModeCaptureCombined:
		return e.capture(c, line, true)
	default:
		return e.inherit(c, line)
	}
}

func (e *processExecutor) build(c Command) *exec.Cmd {
	// #nosec G204 - running operator-supplied programs is the point of forall
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.WorkDir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

func (e *processExecutor) inherit(c Command, line CommandLine) (Outcome, error) {
	cmd := e.build(c)
	outDst := pick(c.Stdout, e.stdout)
	errDst := pick(c.Stderr, e.stderr)
	stdout := &trackingWriter{w: liveWriter(outDst)}
	// exec serializes writes only when both streams share one writer value.
	stderr := stdout
	if !sameWriter(outDst, errDst) {
		stderr = &trackingWriter{w: liveWriter(errDst)}
	}
	cmd.Stdin = c.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = e.stdin
	}
	cmd.Stdout = stdout.target()
	cmd.Stderr = stderr.target()

	if err := cmd.Start(); err != nil {
		return Outcome{}, &StartupError{Line: line, Err: err}
	}

	waitErr := cmd.Wait()
	copyStream := StreamStdout
	if stderr != stdout && stdout.err == nil && stderr.err != nil {
		copyStream = StreamStderr
	}
	status, err := waitStatus(line, cmd, waitErr, copyStream)
	if err != nil {
		return Outcome{Status: status}, err
	}
	return classify(line, Outcome{Status: status}, capturedBytes{})
}

func pick(override, fallback io.Writer) io.Writer {
	if override != nil {
		return override
	}
	return fallback
}

// sameWriter reports whether a and b are the same comparable writer.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// liveWriter wraps a destination for inherited output. Writers that are not
// files are flushed after every write so output stays live.
func liveWriter(w io.Writer) io.Writer {
	if w == nil {
		return nil
	}
	if _, ok := w.(*os.File); ok || w == io.Discard {
		return w
	}
	return forallio.NewFlushingWriter(w)
}

// trackingWriter remembers the first write error so a failed copy can be
// attributed to its stream.
type trackingWriter struct {
	w   io.Writer
	err error
}

// target returns what exec.Cmd should see. Files are handed over directly so
// the child writes to them without a copying goroutine.
func (t *trackingWriter) target() io.Writer {
	if t.w == nil {
		return nil
	}
	if f, ok := t.w.(*os.File); ok {
		return f
	}
	return t
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}
