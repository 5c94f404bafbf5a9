package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"hue/internal/driver"
	"hue/internal/observ"
	"hue/internal/trace"
)

// CompileRequest configures one batch of independent passes.
type CompileRequest struct {
	Files          []string
	BaseDir        string
	OutputDir      string
	Emit           EmitMode
	Jobs           int
	MaxDiagnostics int
	Cache          *driver.DiskCache
	Progress       ProgressSink
	// Timings adds an OBS6001 summary to every result bag.
	Timings bool
}

// CompileResult captures per-input outcomes and stage timings.
type CompileResult struct {
	Results []*driver.Result
	// Outputs maps input paths to the .ll files written for them.
	Outputs map[string]string
	Failed  int
	Timings Timings
}

// OK reports whether every pass succeeded.
func (r CompileResult) OK() bool { return r.Failed == 0 }

// ErrOutputClash is returned when two inputs would write the same artifact.
var ErrOutputClash = errors.New("two inputs produce the same output file")

// Compile lowers every input in its own pass and writes an artifact for each
// pass that succeeded. Failed passes are counted, not returned as errors.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no inputs")
	}
	emit := req.Emit
	if emit == "" {
		emit = EmitLL
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "compile", trace.ParentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	names := DisplayNames(req.Files, req.BaseDir)
	emitQueued(req.Progress, req.Files, names)

	results, err := driver.LowerFiles(ctx, req.Files, driver.FilesOptions{
		Jobs:           req.Jobs,
		MaxDiagnostics: req.MaxDiagnostics,
		Cache:          req.Cache,
		Timings:        req.Timings,
		Observer:       phaseObserver(req.Progress, names),
	})
	if err != nil {
		return result, err
	}
	result.Results = results
	for _, res := range results {
		recordTimings(&result.Timings, res.Timing)
		if res.Failed() {
			result.Failed++
		}
		if res.Cached {
			// cache hits skip the lower phase events
			status, err := StatusDone, error(nil)
			if res.Failed() {
				status, err = StatusError, fmt.Errorf("cached pass failed")
			}
			emitFile(req.Progress, names[res.Path], StageLower, status, err, 0)
		}
	}

	if emit == EmitNone {
		for _, res := range results {
			if !res.Failed() {
				emitFile(req.Progress, names[res.Path], StageEmit, StatusDone, nil, 0)
			}
		}
		return result, nil
	}

	emitStart := time.Now()
	outputs, err := writeOutputs(ctx, req, results, names)
	result.Timings.Set(StageEmit, time.Since(emitStart))
	result.Outputs = outputs
	return result, err
}

func writeOutputs(ctx context.Context, req *CompileRequest, results []*driver.Result, names map[string]string) (map[string]string, error) {
	outDir := req.OutputDir
	if outDir == "" {
		outDir = "."
	}
	outputs := make(map[string]string)
	owners := make(map[string]string)
	for _, res := range results {
		if res.Failed() {
			continue
		}
		out := filepath.Join(outDir, res.Module+".ll")
		if prev, ok := owners[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrOutputClash, prev, res.Path, out)
		}
		owners[out] = res.Path
		outputs[res.Path] = out
	}
	if len(outputs) == 0 {
		return outputs, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, res := range results {
		out, ok := outputs[res.Path]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := names[res.Path]
			emitFile(req.Progress, name, StageEmit, StatusWorking, nil, 0)
			start := time.Now()
			if err := os.WriteFile(out, []byte(res.Text), 0o644); err != nil {
				err = fmt.Errorf("write %s: %w", out, err)
				emitFile(req.Progress, name, StageEmit, StatusError, err, time.Since(start))
				return err
			}
			emitFile(req.Progress, name, StageEmit, StatusDone, nil, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// phaseObserver turns driver phase events into per-file progress events.
func phaseObserver(sink ProgressSink, names map[string]string) driver.PhaseObserver {
	if sink == nil {
		return nil
	}
	return func(ev driver.PhaseEvent) {
		stage := StageLower
		if ev.Name == driver.PhaseLoad {
			stage = StageLoad
		}
		name := names[ev.Path]
		switch {
		case ev.Status == driver.PhaseStart:
			emitFile(sink, name, stage, StatusWorking, nil, 0)
		case ev.Failed:
			emitFile(sink, name, stage, StatusError, fmt.Errorf("%s failed", ev.Name), ev.Elapsed)
		case ev.Name != driver.PhaseLower:
			// lower is followed by print within the same stage
			emitFile(sink, name, stage, StatusDone, nil, ev.Elapsed)
		}
	}
}

func recordTimings(t *Timings, report observ.Report) {
	for _, phase := range report.Phases {
		stage := StageLower
		if phase.Name == driver.PhaseLoad {
			stage = StageLoad
		}
		t.Add(stage, durationFromMillis(phase.DurationMS))
	}
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func emitQueued(sink ProgressSink, files []string, names map[string]string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: names[file], Stage: StageLoad, Status: StatusQueued})
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
