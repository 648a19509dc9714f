package command

import "fmt"

// Level is the operator's chosen verbosity. Levels are ordered:
// LevelOff < LevelQuiet < LevelNormal < LevelVerbose.
type Level int

const (
	// LevelOff suppresses all diagnostics (-qq).
	LevelOff Level = iota
	// LevelQuiet shows only failures (-q).
	LevelQuiet
	// LevelNormal is the default.
	LevelNormal
	// LevelVerbose echoes bookkeeping commands too (-v).
	LevelVerbose
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelQuiet:
		return "quiet"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// LevelFromFlags resolves -q/-v counts into a Level. Verbose wins over quiet;
// -q twice or more turns diagnostics off.
func LevelFromFlags(quiet int, verbose bool) Level {
	switch {
	case verbose:
		return LevelVerbose
	case quiet >= 2:
		return LevelOff
	case quiet == 1:
		return LevelQuiet
	default:
		return LevelNormal
	}
}

// Policy decides, for one Kind, when a command is echoed and when its output
// is shown live rather than captured.
type Policy struct {
	// EchoAt is the lowest level at which the command line is logged.
	EchoAt Level
	// LiveAt is the lowest level at which output is streamed live.
	LiveAt Level
	// Hidden commands never show output; their results are only consumed.
	Hidden bool
}

var policies = map[Kind]Policy{
	KindOrdinary: {EchoAt: LevelNormal, LiveAt: LevelNormal},
	KindPrimary:  {EchoAt: LevelNormal, LiveAt: LevelVerbose},
	KindInternal: {EchoAt: LevelVerbose, Hidden: true},
}

// PolicyFor returns the policy of kind. Unknown kinds are treated as ordinary.
func PolicyFor(kind Kind) Policy {
	if p, ok := policies[kind]; ok {
		return p
	}
	return policies[KindOrdinary]
}

// Echo reports whether the command line is logged at level v.
func (p Policy) Echo(v Level) bool {
	return v >= p.EchoAt
}

// Mode returns how output is routed at level v. Hidden commands always
// capture; the rest stream live at or above LiveAt and otherwise capture a
// combined transcript to show on failure.
func (p Policy) Mode(v Level) Mode {
	if !p.Hidden && v >= p.LiveAt {
		return ModeInherit
	}
	return ModeCaptureCombined
}
