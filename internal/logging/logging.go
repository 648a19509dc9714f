// Package logging prints forall's diagnostics: project headers, echoed
// command lines, HTTP requests and the failure summary.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/satococoa/forall/internal/command"
)

// Class tags what a log record is about.
type Class string

const (
	ClassProject Class = "project"
	ClassCommand Class = "command"
	ClassRequest Class = "request"
)

const classKey = "class"

// Options configures New
type Options struct {
	// Color forces colour on or off. When nil, colour is used only if the
	// output is a terminal.
	Color *bool
	// LogFile, when set, also writes every record as JSON to a rotated file.
	LogFile string
}

// Logger is the process-wide diagnostic sink
type Logger struct {
	log     *slog.Logger
	fileLog *slog.Logger
	out     io.Writer
	color   bool
	file    *lumberjack.Logger
}

// New creates a Logger writing to out at the given verbosity.
func New(out io.Writer, level command.Level, opts Options) *Logger {
	useColor := isTerminal(out)
	if opts.Color != nil {
		useColor = *opts.Color
	}

	handlers := fanout{newConsoleHandler(out, consoleLevel(level), useColor)}
	l := &Logger{out: out, color: useColor}
	if opts.LogFile != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
		}
		fileHandler := slog.NewJSONHandler(l.file, &slog.HandlerOptions{Level: slog.LevelDebug})
		handlers = append(handlers, fileHandler)
		l.fileLog = slog.New(fileHandler)
	}
	l.log = slog.New(handlers)
	return l
}

// Discard returns a Logger that prints nothing.
func Discard() *Logger {
	return New(io.Discard, command.LevelOff, Options{})
}

// consoleLevel maps verbosity to the lowest slog level printed. Project
// headers are Info and requests are Debug.
func consoleLevel(level command.Level) slog.Level {
	switch {
	case level <= command.LevelOff:
		return slog.LevelWarn
	case level == command.LevelQuiet:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Close flushes and closes the file log, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

// Project announces that work on a project begins.
func (l *Logger) Project(name string) {
	l.log.Info(name, slog.String(classKey, string(ClassProject)))
}

// Command echoes a command line about to run. Whether to echo at all is the
// runner's decision, so this always logs.
func (l *Logger) Command(line command.CommandLine) {
	l.log.LogAttrs(context.Background(), slog.LevelInfo, "+"+line.String(),
		slog.String(classKey, string(ClassCommand)),
		slog.String("dir", line.Dir),
	)
}

// Request logs an outgoing HTTP request.
func (l *Logger) Request(method, url string) {
	l.log.Debug(method+" "+url, slog.String(classKey, string(ClassRequest)))
}

// Warn logs a warning, such as a tolerated failure.
func (l *Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

// Error logs a failure.
func (l *Logger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

// Failures prints the end-of-batch summary. Nothing is printed for an empty
// list.
func (l *Logger) Failures(names []string) {
	if len(names) == 0 {
		return
	}
	header := "Failures:"
	if l.color {
		c := color.New(color.Bold)
		c.EnableColor()
		header = c.Sprint(header)
	}
	_, _ = fmt.Fprintf(l.out, "\n%s\n", header)
	for _, name := range names {
		_, _ = fmt.Fprintln(l.out, name)
	}
	if l.fileLog != nil {
		l.fileLog.Info("batch finished with failures", slog.Any("projects", names))
	}
}
