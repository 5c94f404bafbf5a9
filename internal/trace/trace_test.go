package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "codegen", 0)
	Point(tr, ScopeNode, "lower", "Call", span.ID())
	span.WithExtra("module", "hello").End("ok")

	out := buf.String()
	if !strings.Contains(out, ">codegen") || !strings.Contains(out, "<codegen (ok) {module=hello}") {
		t.Fatalf("expected pass span in output, got %q", out)
	}
	if strings.Contains(out, "lower") {
		t.Fatalf("node events must be filtered at phase level, got %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected begin and end lines, got %q", out)
	}
}

func TestDisabledSpanStillMeasures(t *testing.T) {
	span := Begin(Nop, ScopePass, "codegen", 0)
	if span.ID() != 0 {
		t.Fatalf("disabled span must have ID 0")
	}
	time.Sleep(time.Millisecond)
	if span.End("") <= 0 {
		t.Fatalf("disabled span must still measure time")
	}
}

func TestRingTracerWrapsInOrder(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	got := events[0].Name + events[1].Name + events[2].Name
	if got != "cde" {
		t.Fatalf("expected cde, got %s", got)
	}

	var buf bytes.Buffer
	ok, err := DumpRing(Tee(LevelDebug, Nop, ring), &buf, FormatNDJSON)
	if !ok || err != nil {
		t.Fatalf("DumpRing: ok=%v err=%v", ok, err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("expected 3 ndjson lines, got %q", buf.String())
	}
	if ok, _ := DumpRing(Nop, &buf, FormatText); ok {
		t.Fatalf("Nop keeps no ring")
	}
}

func TestNewErrorLevelKeepsRing(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeModule, "function", 0).End("failed")
	Point(tr, ScopeNode, "lower", "Call", 0)

	var buf bytes.Buffer
	ok, err := DumpRing(tr, &buf, FormatText)
	if !ok || err != nil {
		t.Fatalf("DumpRing: ok=%v err=%v", ok, err)
	}
	if strings.Count(buf.String(), "\n") != 2 || strings.Contains(buf.String(), "lower") {
		t.Fatalf("expected only the module span, got %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	ring := NewRingTracer(8, LevelDebug)
	span := Begin(ring, ScopeDriver, "build", 0)
	ctx := WithSpan(context.Background(), span)
	ctx = WithTracer(ctx, ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
	if ParentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Fatalf("span lost when the tracer was attached")
	}
}

func TestParseLevelAndMode(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG", ""} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode(""); err == nil {
		t.Errorf("expected error for empty mode")
	}
}

func TestHeartbeatStops(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond, func() string { return "2/5 lowered" })
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	events := ring.Snapshot()
	if len(events) == 0 || !strings.HasSuffix(events[0].Detail, "2/5 lowered") {
		t.Fatalf("expected heartbeat events with status, got %+v", events)
	}
	if StartHeartbeat(Nop, time.Millisecond, nil) != nil {
		t.Fatalf("disabled tracer must not start a heartbeat")
	}
}
