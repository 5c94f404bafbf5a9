package llvm

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
	"hue/internal/trace"
)

// EntryName is the symbol the root function of a module is emitted under.
const EntryName = "main"

// Revision identifies the lowering rules. Bump it when the IR or diagnostics
// produced for an unchanged tree change, so cached passes are not reused.
const Revision = "2"

// Options configure one Emitter.
type Options struct {
	// Tracer receives pass spans and, at debug level, node dispatch events.
	Tracer trace.Tracer
	// ParentSpan links the pass span to the caller's span.
	ParentSpan uint64
	// Reporter, when set, receives every diagnostic in addition to the pass bag.
	Reporter diag.Reporter
	// EntryName overrides EntryName.
	EntryName string
}

// Emitter lowers one syntax tree into one IR module. All of its state belongs
// to a single pass; independent compilations use independent emitters and may
// run in parallel.
type Emitter struct {
	mod      *ir.Module
	moduleID string
	entry    string

	scopes    []*scope
	nextScope ScopeID
	block     *ir.Block // insertion point, nil when no scope is open

	bag      *diag.Bag
	reporter diag.Reporter

	reserved   map[string]struct{}
	arrayTypes map[types.Type]*types.StructType
	// values already renamed after the variable they were first bound to
	varNamed map[value.Value]struct{}

	tracer trace.Tracer
	parent uint64
	span   uint64
}

func New(opts Options) *Emitter {
	e := &Emitter{
		entry:  opts.EntryName,
		tracer: opts.Tracer,
		parent: opts.ParentSpan,
		bag:    diag.NewBag(0),
	}
	if e.entry == "" {
		e.entry = EntryName
	}
	if e.tracer == nil {
		e.tracer = trace.Nop
	}
	e.reporter = diag.BagReporter{Bag: e.bag}
	if opts.Reporter != nil {
		e.reporter = diag.MultiReporter{e.reporter, opts.Reporter}
	}
	return e
}

// GenModule creates a module named name and lowers root into its entry
// function. It returns nil if any error was recorded; a partially built
// module never escapes.
func (e *Emitter) GenModule(name string, root *ast.Function) *ir.Module {
	e.reset(name)
	span := trace.Begin(e.tracer, trace.ScopePass, "codegen", e.parent)
	span.WithExtra("module", name)
	e.span = span.ID()
	defer func() {
		e.mod = nil
		e.span = 0
	}()

	mod := e.mod
	if root == nil {
		e.errorf(diag.GenUnsupportedNode, "module %q has no root function", name)
	} else if params := root.Params(); len(params) > 0 {
		e.errorf(diag.GenUnsupportedNode,
			"root function of module %q declares %d parameters; the module entry takes none", name, len(params))
	} else {
		exitCode := constant.NewInt(types.I64, 0)
		_, _ = e.lowerFunction(root, e.entry, types.I64, exitCode)
	}

	if e.bag.HasErrors() {
		span.WithExtra("errors", strconv.Itoa(e.bag.ErrorCount())).End("failed")
		return nil
	}
	span.End("ok")
	return mod
}

func (e *Emitter) reset(name string) {
	e.mod = ir.NewModule()
	e.mod.SourceFilename = name
	e.moduleID = name
	e.scopes = e.scopes[:0]
	e.nextScope = 0
	e.block = nil
	e.bag.Reset()
	e.reserved = make(map[string]struct{})
	e.arrayTypes = make(map[types.Type]*types.StructType)
	e.varNamed = make(map[value.Value]struct{})
}

// Bag exposes the diagnostics of the last pass. Treat it as read-only.
func (e *Emitter) Bag() *diag.Bag { return e.bag }

// Errors returns the error log of the last pass.
func (e *Emitter) Errors() []string { return e.bag.Errors() }

// Warnings returns the warning log of the last pass.
func (e *Emitter) Warnings() []string { return e.bag.Warnings() }

// GenModule runs one fresh pass and returns its module (nil on failure) and diagnostics.
func GenModule(name string, root *ast.Function, opts Options) (*ir.Module, *diag.Bag) {
	e := New(opts)
	mod := e.GenModule(name, root)
	return mod, e.bag
}

func (e *Emitter) errorf(code diag.Code, format string, args ...any) error {
	return diag.ReportError(e.reporter, code, fmt.Sprintf(format, args...))
}

func (e *Emitter) warnf(code diag.Code, format string, args ...any) {
	diag.ReportWarning(e.reporter, code, fmt.Sprintf(format, args...))
}
