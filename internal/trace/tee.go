package trace

import (
	"errors"
	"io"
)

type teeTracer struct {
	sinks []Tracer
	ring  *RingTracer // first ring among sinks, for DumpRing
	level Level
}

// Tee sends every event to all sinks, each receiving its own copy.
func Tee(level Level, sinks ...Tracer) Tracer {
	t := &teeTracer{sinks: sinks, level: level}
	for _, s := range sinks {
		if r := ringOf(s); r != nil {
			t.ring = r
			break
		}
	}
	return t
}

func (t *teeTracer) Emit(ev *Event) {
	if ev == nil {
		return
	}
	stamp(ev)
	for _, s := range t.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

func (t *teeTracer) Flush() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (t *teeTracer) Close() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func (t *teeTracer) Level() Level  { return t.level }
func (t *teeTracer) Enabled() bool { return t.level > LevelOff }

func ringOf(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *teeTracer:
		return tr.ring
	}
	return nil
}

// DumpRing writes the ring buffer behind t, if any, to w. It reports
// whether t keeps one.
func DumpRing(t Tracer, w io.Writer, format Format) (bool, error) {
	r := ringOf(t)
	if r == nil {
		return false, nil
	}
	return true, r.Dump(w, format)
}
