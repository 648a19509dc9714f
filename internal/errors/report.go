package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/satococoa/forall/internal/command"
)

const indent = "    "

// Report prints a fatal error for the operator: its message, the chain of
// underlying causes whose text is not already part of the message, and the
// captured output of a failed command unless it was printed already.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	_, _ = fmt.Fprintf(w, "forall: %s\n", msg)

	var causes []string
	seen := msg
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		text := cause.Error()
		if text == "" || strings.Contains(seen, text) {
			continue
		}
		causes = append(causes, text)
		seen += "\n" + text
	}
	if len(causes) > 0 {
		_, _ = fmt.Fprintln(w, "\nCaused by:")
		for _, c := range causes {
			_, _ = fmt.Fprint(w, Indent(c, indent))
		}
	}

	var exitErr *command.ExitError
	if errors.As(err, &exitErr) && !exitErr.Shown {
		if text := exitErr.Captured(); strings.TrimSpace(text) != "" {
			_, _ = fmt.Fprintln(w, "\nOutput:")
			_, _ = fmt.Fprint(w, Indent(text, indent))
			exitErr.Shown = true
		}
	}
}

// Indent prefixes every line of text with prefix and ends it with a newline.
func Indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		if line != "" {
			b.WriteString(prefix)
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
