package trace

import (
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// Span brackets one operation. A span whose tracer does not admit its scope
// still measures time but emits nothing and has ID 0.
type Span struct {
	t      Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	extra  map[string]string
}

func admits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().Allows(scope)
}

// Begin opens a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{start: time.Now()}
	if !admits(t, scope) {
		return s
	}
	s.t, s.id, s.parent, s.scope, s.name = t, spanIDs.Add(1), parent, scope, name
	t.Emit(&Event{
		Time:     s.start,
		Seq:      seq.Add(1),
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
	})
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	elapsed := time.Since(s.start)
	if s.t == nil {
		return elapsed
	}
	s.t.Emit(&Event{
		Time:     s.start.Add(elapsed),
		Seq:      seq.Add(1),
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
		Elapsed:  elapsed,
	})
	return elapsed
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !admits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
