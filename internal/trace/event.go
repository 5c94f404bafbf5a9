package trace

import "time"

// Kind is what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k != 0 {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; larger values are finer.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI commands, batch compile, file loads
	ScopePass                    // one lowering pass over one tree
	ScopeModule                  // functions inside a pass
	ScopeNode                    // node dispatch and symbol resolution
)

var scopeNames = [...]string{"", "driver", "pass", "module", "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && s != 0 {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Sinks own the copy they receive.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned on first emit, monotonic per process
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string
	Detail   string
	Extra    map[string]string
	// Elapsed is set on KindEnd.
	Elapsed time.Duration
}

// stamp gives ev a sequence number if it has none yet.
func stamp(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
}

// accepts decides whether a sink at level keeps ev. Heartbeats pass any
// enabled level.
func accepts(level Level, ev *Event) bool {
	if ev == nil || level == LevelOff {
		return false
	}
	return ev.Kind == KindHeartbeat || level.Allows(ev.Scope)
}
