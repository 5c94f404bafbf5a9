package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hue/internal/buildpipeline"
	"hue/internal/diagfmt"
	"hue/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.hast|directory ...]",
	Short: "Lower every input into an LLVM IR module",
	Long: `Lower every .hast input in its own pass and write <module>.ll for each pass
that succeeds. Without arguments the entries of the nearest hue.toml are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, false)
	},
}

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.hast|directory ...]",
	Short: "Lower inputs and report diagnostics without writing artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, true)
	},
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output directory (default from hue.toml or ./build)")
	buildCmd.Flags().String("emit", "", "artifact kind (ll|none)")
	for _, cmd := range []*cobra.Command{buildCmd, diagCmd} {
		cmd.Flags().Int("jobs", 0, "max parallel passes (0=auto)")
		cmd.Flags().Bool("no-cache", false, "bypass the persistent pass cache")
		cmd.Flags().Bool("clear-cache", false, "empty the persistent pass cache first")
		cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	}
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type batchOptions struct {
	inputs    []string
	baseDir   string
	outputDir string
	emit      buildpipeline.EmitMode
	jobs      int
	noCache   bool
	clear     bool
	withNotes bool
	format    string
	ui        toggle
}

func readBatchOptions(cmd *cobra.Command, args []string, checkOnly bool, s *session) (batchOptions, error) {
	var opts batchOptions
	var err error
	flags := cmd.Flags()

	if len(args) > 0 {
		opts.inputs = args
		opts.baseDir = "."
	} else if s.manifest != nil {
		opts.inputs = s.manifest.EntryPaths()
		opts.baseDir = s.manifest.Root
	} else {
		return opts, fmt.Errorf("no inputs: pass .hast files or directories, or run inside a project with hue.toml")
	}

	opts.outputDir = "build"
	opts.emit = buildpipeline.EmitLL
	if s.manifest != nil {
		opts.outputDir = s.manifest.OutputDir()
		opts.emit = buildpipeline.EmitMode(s.manifest.Config.Build.Emit)
		opts.jobs = s.manifest.Config.Build.Jobs
	}
	if checkOnly {
		opts.emit = buildpipeline.EmitNone
		if opts.format, err = flags.GetString("format"); err != nil {
			return opts, fmt.Errorf("failed to get format flag: %w", err)
		}
		switch opts.format {
		case "pretty", "json":
		default:
			return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
		}
	} else {
		if flags.Changed("out") {
			if opts.outputDir, err = flags.GetString("out"); err != nil {
				return opts, fmt.Errorf("failed to get out flag: %w", err)
			}
		}
		if flags.Changed("emit") {
			emit, err := flags.GetString("emit")
			if err != nil {
				return opts, fmt.Errorf("failed to get emit flag: %w", err)
			}
			switch buildpipeline.EmitMode(emit) {
			case buildpipeline.EmitLL, buildpipeline.EmitNone:
				opts.emit = buildpipeline.EmitMode(emit)
			default:
				return opts, fmt.Errorf("unsupported emit mode %q (must be ll or none)", emit)
			}
		}
	}
	if flags.Changed("jobs") {
		if opts.jobs, err = flags.GetInt("jobs"); err != nil {
			return opts, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if opts.noCache, err = flags.GetBool("no-cache"); err != nil {
		return opts, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if opts.clear, err = flags.GetBool("clear-cache"); err != nil {
		return opts, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	uiValue, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = parseToggle("ui", uiValue); err != nil {
		return opts, err
	}
	return opts, nil
}

// runBatch drives build and diag. Diagnostics go to stderr, except for
// diag --format json which writes one document to stdout.
func runBatch(cmd *cobra.Command, args []string, checkOnly bool) error {
	defer dumpTraceOnPanic()

	s := current
	opts, err := readBatchOptions(cmd, args, checkOnly, s)
	if err != nil {
		return err
	}
	files, err := driver.ListInputs(opts.inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", driver.ASTExt, strings.Join(opts.inputs, ", "))
	}

	var cache *driver.DiskCache
	if !opts.noCache {
		cache, err = driver.OpenDiskCache("hue")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: pass cache disabled: %v\n", err)
			cache = nil
		}
	}
	if cache != nil && opts.clear {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	req := &buildpipeline.CompileRequest{
		Files:          files,
		BaseDir:        opts.baseDir,
		OutputDir:      opts.outputDir,
		Emit:           opts.emit,
		Jobs:           opts.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Cache:          cache,
		Timings:        s.timings,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	useTUI := !s.quiet && opts.format != "json" && opts.ui.on(os.Stdout)
	var res buildpipeline.CompileResult
	if useTUI {
		title := "building"
		if checkOnly {
			title = "checking"
		}
		res, err = runCompileWithUI(ctx, title, req)
	} else {
		res, err = buildpipeline.Compile(ctx, req)
	}
	if err != nil {
		return err
	}

	names := buildpipeline.DisplayNames(files, opts.baseDir)
	if opts.format == "json" {
		if err := writeBatchJSON(cmd.OutOrStdout(), res, names, opts.withNotes); err != nil {
			return err
		}
	} else {
		if err := printDiagnostics(cmd.ErrOrStderr(), res, names, s, opts.withNotes); err != nil {
			return err
		}
		if !s.quiet && !useTUI {
			printSummary(cmd.OutOrStdout(), res, opts, checkOnly)
		}
		if s.timings {
			printStageTimings(cmd.OutOrStdout(), res.Timings)
		}
	}
	if !res.OK() {
		dumpTraceOnFailure(cmd.ErrOrStderr())
		return errFailed
	}
	return nil
}

func printDiagnostics(w io.Writer, res buildpipeline.CompileResult, names map[string]string, s *session, withNotes bool) error {
	for _, r := range res.Results {
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		if s.quiet && !r.Bag.HasErrors() {
			continue
		}
		err := diagfmt.Pretty(w, r.Bag, diagfmt.PrettyOpts{
			Color:     s.color,
			ShowNotes: withNotes,
			Origin:    names[r.Path],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type batchJSON struct {
	Inputs []diagfmt.DiagnosticsOutput `json:"inputs"`
	Failed int                         `json:"failed"`
}

func writeBatchJSON(w io.Writer, res buildpipeline.CompileResult, names map[string]string, withNotes bool) error {
	out := batchJSON{Inputs: make([]diagfmt.DiagnosticsOutput, 0, len(res.Results)), Failed: res.Failed}
	for _, r := range res.Results {
		out.Inputs = append(out.Inputs, diagfmt.BuildDiagnosticsOutput(r.Bag, diagfmt.JSONOpts{
			Origin:       names[r.Path],
			IncludeNotes: withNotes,
		}))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSummary(w io.Writer, res buildpipeline.CompileResult, opts batchOptions, checkOnly bool) {
	total := len(res.Results)
	passed := total - res.Failed
	cached := 0
	for _, r := range res.Results {
		if r.Cached {
			cached++
		}
	}
	switch {
	case checkOnly || opts.emit == buildpipeline.EmitNone:
		fmt.Fprintf(w, "checked %d/%d modules", passed, total)
	default:
		fmt.Fprintf(w, "built %d/%d modules into %s", passed, total, displayDir(opts.outputDir))
	}
	if cached > 0 {
		fmt.Fprintf(w, " (%d cached)", cached)
	}
	fmt.Fprintln(w)
}

func displayDir(dir string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, ok := strings.CutPrefix(dir, wd+string(os.PathSeparator)); ok {
			return rel
		}
	}
	return dir
}
