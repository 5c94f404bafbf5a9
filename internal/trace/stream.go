package trace

import (
	"io"
	"sync"
)

// StreamTracer writes each event to w as it arrives. Write errors are
// dropped: tracing never fails a build.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	line   []byte
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !accepts(t.level, ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stamp(ev)
	t.line = AppendEvent(t.line[:0], ev, t.format)
	_, _ = t.w.Write(t.line)
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w when it is a Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
