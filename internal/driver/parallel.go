package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FilesOptions apply to every input of LowerFiles.
type FilesOptions struct {
	Jobs           int
	MaxDiagnostics int
	Cache          *DiskCache
	Observer       PhaseObserver
	Timings        bool
}

// LowerFiles lowers each file in its own pass, in parallel. Results keep the
// order of files. A failing pass does not stop the others; only context
// cancellation does.
func LowerFiles(ctx context.Context, files []string, opts FilesOptions) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			res, err := Lower(gctx, Request{
				Path:           path,
				MaxDiagnostics: opts.MaxDiagnostics,
				Cache:          opts.Cache,
				Observer:       opts.Observer,
				Timings:        opts.Timings,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
