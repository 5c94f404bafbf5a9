package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/llir/llvm/ir"

	"hue/internal/ast"
	llvmbackend "hue/internal/backend/llvm"
	"hue/internal/diag"
	"hue/internal/observ"
	"hue/internal/project"
	"hue/internal/trace"
	"hue/internal/version"
)

// Request describes one input to lower.
type Request struct {
	Path string
	// Module overrides the module name recorded in the input.
	Module string
	// MaxDiagnostics limits the result bag, 0 means unlimited.
	MaxDiagnostics int
	Cache          *DiskCache
	Observer       PhaseObserver
	// Timings appends an OBS6001 summary to the result bag.
	Timings bool
}

// Result is the outcome of one pass over one input.
type Result struct {
	Path   string
	Module string
	// IR is nil when the pass failed or the result came from the cache.
	IR *ir.Module
	// Text is the printed module, empty when the pass failed.
	Text   string
	Bag    *diag.Bag
	Timing observ.Report
	Cached bool
	Key    project.Digest
}

// Failed reports whether the pass recorded any error.
func (r *Result) Failed() bool { return r == nil || r.Bag.HasErrors() }

// Lower runs exactly one fresh lowering pass over req.Path. Problems with
// the input are recorded in the result bag; the returned error is only set
// when ctx is done.
func Lower(ctx context.Context, req Request) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "lower_file", trace.ParentSpan(ctx))
	span.WithExtra("path", req.Path)
	defer span.End("")

	res := &Result{Path: req.Path, Bag: diag.NewBag(req.MaxDiagnostics)}
	reporter := diag.BagReporter{Bag: res.Bag}
	timer := observ.NewTimer()
	defer func() {
		if req.Timings {
			timer.ReportTo(reporter)
		}
		res.Timing = timer.Report()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// load
	end := startPhase(req, timer, PhaseLoad)
	data, err := os.ReadFile(req.Path)
	if err != nil {
		diag.ReportError(reporter, diag.IOLoadFileError, fmt.Sprintf("cannot read %s: %v", req.Path, err))
		end(true)
		return res, nil
	}
	content := project.DigestOf(data)
	file, decodeErr := ast.Decode(bytes.NewReader(data))
	res.Module = req.Module
	if res.Module == "" {
		res.Module = ModuleName(file, req.Path)
	}
	res.Key = cacheKey(content, res.Module)
	if decodeErr != nil {
		diag.ReportError(reporter, diag.IODecodeError, fmt.Sprintf("%s: %v", req.Path, decodeErr))
		end(true)
		return res, nil
	}
	end(false)

	var cached DiskPayload
	if hit, err := req.Cache.Get(res.Key, &cached); err == nil && hit {
		trace.Point(tracer, trace.ScopeDriver, "cache_hit", req.Path, span.ID())
		restoreDiagnostics(cached.Diagnostics, res.Bag)
		res.Text = cached.IR
		res.Cached = true
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// lower
	end = startPhase(req, timer, PhaseLower)
	mod, passBag := llvmbackend.GenModule(res.Module, file.Root, llvmbackend.Options{
		Tracer:     tracer,
		ParentSpan: span.ID(),
	})
	res.Bag.Merge(passBag)
	end(mod == nil)

	// print
	if mod != nil {
		end = startPhase(req, timer, PhasePrint)
		res.IR = mod
		res.Text = mod.String()
		end(false)
	}

	if err := req.Cache.Put(res.Key, &DiskPayload{
		Module:      res.Module,
		Path:        req.Path,
		IR:          res.Text,
		Diagnostics: cacheDiagnostics(passBag),
		Broken:      mod == nil,
	}); err != nil {
		trace.Point(tracer, trace.ScopeDriver, "cache_write_failed", err.Error(), span.ID())
	}
	return res, nil
}

// cacheKey ties a pass outcome to its input, its module name and the
// compiler that produced it.
func cacheKey(content project.Digest, module string) project.Digest {
	return project.Combine(content,
		project.DigestOf([]byte(module)),
		project.DigestOf([]byte(version.Version+"+"+llvmbackend.Revision)))
}

func startPhase(req Request, timer *observ.Timer, name string) func(failed bool) {
	end := timer.Track(name)
	start := time.Now()
	req.Observer.emit(PhaseEvent{Path: req.Path, Name: name, Status: PhaseStart})
	return func(failed bool) {
		note := ""
		if failed {
			note = "failed"
		}
		end(note)
		req.Observer.emit(PhaseEvent{
			Path:    req.Path,
			Name:    name,
			Status:  PhaseEnd,
			Elapsed: time.Since(start),
			Failed:  failed,
		})
	}
}
