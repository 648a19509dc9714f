package command

import (
	"strings"

	"github.com/alessio/shellescape"
)

// CommandLine is the display form of an invocation: its POSIX-quoted text and
// the directory it runs in. It is meant for logs and error messages; the
// [cwd=...] suffix added by String is not shell syntax.
type CommandLine struct {
	Text string
	Dir  string
}

// Render quotes name and args and joins them with spaces.
func Render(name string, args []string, dir string) CommandLine {
	var b strings.Builder
	b.WriteString(shellescape.Quote(name))
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(shellescape.Quote(arg))
	}
	return CommandLine{Text: b.String(), Dir: dir}
}

func (l CommandLine) String() string {
	if l.Dir == "" {
		return l.Text
	}
	return l.Text + " [cwd=" + l.Dir + "]"
}

// Marked returns the line wrapped in backticks for embedding in prose.
func (l CommandLine) Marked() string {
	if l.Dir == "" {
		return "`" + l.Text + "`"
	}
	return "`" + l.Text + "` [cwd=" + l.Dir + "]"
}
