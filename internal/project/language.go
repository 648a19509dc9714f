package project

import (
	"strings"

	forallerrors "github.com/satococoa/forall/internal/errors"
)

// Language is a project's implementation language
type Language int

const (
	Python Language = iota
	Rust
)

// ParseLanguage accepts python, py, rust or rs in any case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "python", "py":
		return Python, nil
	case "rust", "rs":
		return Rust, nil
	default:
		return 0, forallerrors.InvalidLanguage(s)
	}
}

func (l Language) String() string {
	if l == Rust {
		return "Rust"
	}
	return "Python"
}

// Ext is the file extension of the language's sources.
func (l Language) Ext() string {
	if l == Rust {
		return "rs"
	}
	return "py"
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
