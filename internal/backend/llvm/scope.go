package llvm

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"hue/internal/diag"
	"hue/internal/trace"
)

// ScopeID identifies a lexical scope within one pass. IDs are never reused.
type ScopeID uint32

// Symbol is what a name resolves to. Frame is the ID of the function scope
// the binding lives in; bindings from other frames are visible only when the
// value is module-global.
type Symbol struct {
	Value   value.Value
	Mutable bool
	Scope   ScopeID
	Frame   ScopeID
}

// Empty reports whether the lookup found nothing.
func (s Symbol) Empty() bool { return s.Value == nil }

type scope struct {
	id      ScopeID
	frame   ScopeID
	block   *ir.Block
	fn      *funcState
	symbols map[string]Symbol
}

// funcState is per-function naming state shared by a function scope and the
// block scopes nested in it.
type funcState struct {
	fn    *ir.Func
	names map[string]int
}

func newFuncState(fn *ir.Func) *funcState {
	return &funcState{fn: fn, names: make(map[string]int)}
}

// local returns a value name not yet used in this function: x, x.1, x.2, ...
func (fs *funcState) local(base string) string {
	n := fs.names[base]
	fs.names[base] = n + 1
	if n == 0 {
		return base
	}
	return base + "." + strconv.Itoa(n)
}

// enterScope pushes a scope that emits into block. A non-nil fs starts a new
// frame; otherwise the scope belongs to the current function.
func (e *Emitter) enterScope(block *ir.Block, fs *funcState) ScopeID {
	e.nextScope++
	s := &scope{
		id:      e.nextScope,
		block:   block,
		fn:      fs,
		symbols: make(map[string]Symbol),
	}
	if fs != nil {
		s.frame = s.id
	} else if top := e.current(); top != nil {
		s.frame = top.frame
		s.fn = top.fn
	} else {
		s.frame = s.id
	}
	e.scopes = append(e.scopes, s)
	e.block = block
	return s.id
}

// exitScope pops the innermost scope and restores the enclosing insertion point.
func (e *Emitter) exitScope() {
	if len(e.scopes) == 0 {
		return
	}
	e.scopes[len(e.scopes)-1] = nil
	e.scopes = e.scopes[:len(e.scopes)-1]
	if top := e.current(); top != nil {
		e.block = top.block
	} else {
		e.block = nil
	}
}

// withScope runs fn inside a fresh scope; the scope is popped on every path.
func (e *Emitter) withScope(block *ir.Block, fs *funcState, fn func() (value.Value, error)) (value.Value, error) {
	e.enterScope(block, fs)
	defer e.exitScope()
	return fn()
}

func (e *Emitter) current() *scope {
	if len(e.scopes) == 0 {
		return nil
	}
	return e.scopes[len(e.scopes)-1]
}

// Depth is the number of open scopes.
func (e *Emitter) Depth() int { return len(e.scopes) }

// bind records name in the innermost scope, shadowing outer bindings.
func (e *Emitter) bind(name string, v value.Value, mutable bool) {
	s := e.current()
	if s == nil {
		return
	}
	s.symbols[name] = Symbol{Value: v, Mutable: mutable, Scope: s.id, Frame: s.frame}
}

// lookup scans scopes innermost first.
func (e *Emitter) lookup(name string) Symbol {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if sym, ok := e.scopes[i].symbols[name]; ok {
			return sym
		}
	}
	return Symbol{}
}

// localName names a value in the current function.
func (e *Emitter) localName(base string) string {
	s := e.current()
	if s == nil || s.fn == nil {
		return base
	}
	return s.fn.local(base)
}

// resolve turns a name into a usable value. Mutable cells are loaded at the
// current insertion point.
func (e *Emitter) resolve(name string) (value.Value, error) {
	trace.Point(e.tracer, trace.ScopeNode, "resolve", name, e.span)
	sym := e.lookup(name)
	if sym.Empty() {
		return nil, e.errorf(diag.GenUnknownSymbol, "unknown symbol %q", name)
	}
	cur := e.current()
	if cur != nil && sym.Frame != cur.frame && !isGlobal(sym.Value) {
		return nil, e.errorf(diag.GenUnreachableSymbol,
			"symbol %q belongs to an enclosing function and is not reachable here; captured variables are not supported", name)
	}
	if cell, ok := sym.Value.(*ir.InstAlloca); ok {
		load := e.block.NewLoad(cell.ElemType, cell)
		load.SetName(e.localName(name))
		return load, nil
	}
	return sym.Value, nil
}

func isGlobal(v value.Value) bool {
	switch v.(type) {
	case *ir.Func, *ir.Global:
		return true
	default:
		return false
	}
}
