package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use
// since independent passes trace in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Mode selects where events are kept.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // last N kept in memory
	ModeBoth
)

var modeNames = [...]string{"", "stream", "ring", "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) && m != 0 {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode reads a --trace-mode value.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name != "" && name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer the CLI builds from its flags.
type Config struct {
	Level  Level
	Mode   Mode
	Format Format
	// Output wins over OutputPath. OutputPath "-" or "" is stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int // default 4096
}

// New builds the tracer described by cfg. LevelError always yields a ring
// recording module-level events, whatever the mode.
func New(cfg Config) (Tracer, error) {
	switch cfg.Level {
	case LevelOff:
		return Nop, nil
	case LevelError:
		return NewRingTracer(cfg.RingSize, LevelDetail), nil
	}
	if cfg.Mode < ModeStream || cfg.Mode > ModeBoth {
		return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
	}

	var sinks []Tracer
	if cfg.Mode != ModeRing {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStreamTracer(w, cfg.Level, resolveFormat(cfg.Format, cfg.OutputPath)))
	}
	if cfg.Mode != ModeStream {
		sinks = append(sinks, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return Tee(cfg.Level, sinks...), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return struct{ io.Writer }{os.Stderr}, nil // hides Close
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
