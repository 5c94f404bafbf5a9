package trace

import (
	"fmt"
	"strings"
)

// Level controls how fine-grained the recorded events are.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing live; recent module events are kept for failure dumps
	LevelPhase        // driver and pass boundaries
	LevelDetail       // plus functions
	LevelDebug        // plus every dispatched node and resolved symbol
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest scope admitted per level
var levelDepth = [...]Scope{0, 0, ScopePass, ScopeModule, ScopeNode}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace-level value. The empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope are recorded at this level.
func (l Level) Allows(scope Scope) bool {
	return int(l) < len(levelDepth) && scope != 0 && scope <= levelDepth[l]
}
