package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory so they can be dumped
// after a failed build or a crash.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever stored
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (r *RingTracer) Emit(ev *Event) {
	if !accepts(r.level, ev) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(ev)
	r.buf[r.total%uint64(len(r.buf))] = *ev
	r.total++
}

// Snapshot returns the retained events, oldest first.
func (r *RingTracer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := uint64(len(r.buf))
	n := min(r.total, size)
	out := make([]Event, 0, n)
	for i := r.total - n; i < r.total; i++ {
		out = append(out, r.buf[i%size])
	}
	return out
}

// Dump writes the retained events to w.
func (r *RingTracer) Dump(w io.Writer, format Format) error {
	var line []byte
	for _, ev := range r.Snapshot() {
		line = AppendEvent(line[:0], &ev, format)
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *RingTracer) Flush() error  { return nil }
func (r *RingTracer) Close() error  { return nil }
func (r *RingTracer) Level() Level  { return r.level }
func (r *RingTracer) Enabled() bool { return r.level > LevelOff }
