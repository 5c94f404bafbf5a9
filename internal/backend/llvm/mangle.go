package llvm

import (
	"strconv"

	"github.com/llir/llvm/ir"
)

const (
	mangleSep = "$"
	uniqueSep = "$$"
)

// mangle prefixes a local name with the module identifier: "mod$local".
func (e *Emitter) mangle(local string) string {
	return e.moduleID + mangleSep + local
}

// uniqueMangle returns mangle(base), or mangle(base$$N) with the smallest N
// that does not clash with a function, a global, or a name handed out
// earlier in this pass. The returned name is reserved.
func (e *Emitter) uniqueMangle(base string) string {
	name := e.mangle(base)
	for n := 1; e.nameTaken(name); n++ {
		name = e.mangle(base + uniqueSep + strconv.Itoa(n))
	}
	e.reserved[name] = struct{}{}
	return name
}

func (e *Emitter) nameTaken(name string) bool {
	if _, ok := e.reserved[name]; ok {
		return true
	}
	return e.findFunc(name) != nil || e.findGlobal(name)
}

func (e *Emitter) findFunc(name string) *ir.Func {
	if e.mod == nil {
		return nil
	}
	for _, f := range e.mod.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func (e *Emitter) findGlobal(name string) bool {
	if e.mod == nil {
		return false
	}
	for _, g := range e.mod.Globals {
		if g.Name() == name {
			return true
		}
	}
	return false
}
