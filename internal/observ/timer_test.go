package observ

import (
	"strings"
	"sync"
	"testing"

	"hue/internal/diag"
)

func TestTimerTracksPhasesConcurrently(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for _, name := range []string{"load", "lower", "emit"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			done := timer.Track(name)
			done("ok")
		}(name)
	}
	wg.Wait()

	report := timer.Report()
	if len(report.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(report.Phases))
	}
	for _, p := range report.Phases {
		if p.Note != "ok" {
			t.Fatalf("phase %s lost its note", p.Name)
		}
	}
	if report.TotalMS < 0 {
		t.Fatalf("negative total %v", report.TotalMS)
	}
}

func TestTimerReportTo(t *testing.T) {
	timer := NewTimer()
	timer.End(timer.Begin("lower"), "")
	bag := diag.NewBag(0)
	timer.ReportTo(diag.BagReporter{Bag: bag})

	items := bag.WithCode(diag.ObsTimings)
	if len(items) != 1 || items[0].Severity != diag.SevInfo {
		t.Fatalf("expected one timings info diagnostic, got %v", bag.Items())
	}
	if len(items[0].Notes) != 1 || !strings.HasPrefix(items[0].Notes[0], "lower:") {
		t.Fatalf("unexpected notes %v", items[0].Notes)
	}
	if bag.HasErrors() {
		t.Fatalf("timings must never count as errors")
	}
}
