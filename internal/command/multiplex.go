package command

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
)

// drainResult is what a stream reader reports when it stops.
type drainResult struct {
	stream Stream
	err    error
	fault  any
}

// capture runs c with both streams connected to pipes owned by this process.
// One reader goroutine per stream hands complete lines to emit. In combined
// mode emit forwards them into a channel drained by a single collector, so
// the merged transcript keeps each stream's line order. The child is waited
// on while the readers drain, which keeps a chatty child from blocking on a
// full pipe.
func (e *processExecutor) capture(c Command, line CommandLine, combined bool) (Outcome, error) {
	cmd := e.build(c)

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return Outcome{}, &StartupError{Line: line, Err: err}
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		return Outcome{}, &StartupError{Line: line, Err: err}
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		return Outcome{}, &StartupError{Line: line, Err: err}
	}
	// The child holds its own copies; ours must go or the readers never see EOF.
	closeAll(stdoutW, stderrW)

	var (
		raw     capturedBytes
		outBuf  bytes.Buffer
		errBuf  bytes.Buffer
		emitOut func([]byte)
		emitErr func([]byte)
		finish  func() []byte
	)
	if combined {
		emitOut, emitErr, finish = newCollector()
	} else {
		emitOut = func(p []byte) { outBuf.Write(p) }
		emitErr = func(p []byte) { errBuf.Write(p) }
		finish = func() []byte { return nil }
	}

	results := make(chan drainResult, 2)
	go drain(StreamStdout, stdoutR, emitOut, results)
	go drain(StreamStderr, stderrR, emitErr, results)

	waitErr := cmd.Wait()
	status, err := waitStatus(line, cmd, waitErr, StreamStdout)
	if err != nil {
		release(results, finish)
		return Outcome{Status: status}, err
	}

	var (
		drainErr error
		fault    any
		faulted  bool
	)
	for range 2 {
		res := <-results
		switch {
		case res.fault != nil:
			if !faulted {
				fault, faulted = res.fault, true
			}
		case res.err != nil && drainErr == nil:
			drainErr = &DrainError{Line: line, Stream: res.stream, Err: res.err}
		}
	}
	raw.combined = finish()
	if faulted {
		panic(fault)
	}
	if drainErr != nil {
		return Outcome{Status: status}, drainErr
	}

	if combined {
		return classify(line, Outcome{Status: status}, raw)
	}
	raw.stdout = outBuf.Bytes()
	raw.stderr = errBuf.Bytes()
	return classify(line, Outcome{Status: status}, raw)
}

// release stops the collector in the background once both readers are done.
// Descendants of the child may keep the pipes open for a while.
func release(results <-chan drainResult, finish func() []byte) {
	go func() {
		for range 2 {
			<-results
		}
		finish()
	}()
}

// Variables to allow mocking in tests
var newCollector = collector

// collector returns emit functions for both streams that feed one unbounded
// transcript, and a finish function that stops the collector and returns
// what it gathered. finish must only be called after both emitters are done.
func collector() (emitOut, emitErr func([]byte), finish func() []byte) {
	lines := make(chan []byte, 64)
	done := make(chan []byte)
	go func() {
		var transcript bytes.Buffer
		for l := range lines {
			transcript.Write(l)
		}
		done <- transcript.Bytes()
	}()
	emit := func(p []byte) { lines <- p }
	return emit, emit, func() []byte {
		close(lines)
		return <-done
	}
}

// drain reads r line by line, passing each line with its terminator to emit.
// A final line without a newline is passed as is. The read end is closed on
// return so a child still writing gets EPIPE rather than blocking.
func drain(stream Stream, r *os.File, emit func([]byte), results chan<- drainResult) {
	res := drainResult{stream: stream}
	defer func() {
		_ = r.Close()
		if p := recover(); p != nil {
			res.fault = p
		}
		results <- res
	}()

	br := bufio.NewReader(r)
	for {
		chunk, err := br.ReadBytes('\n')
		if len(chunk) > 0 {
			emit(chunk)
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			res.err = err
			return
		}
	}
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
