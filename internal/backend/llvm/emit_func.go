package llvm

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
	"hue/internal/trace"
)

// lowerFunctionInterface declares a function named name in the module.
// A nil ret derives the result type from the interface.
func (e *Emitter) lowerFunctionInterface(ft *ast.FunctionType, name string, ret types.Type) (*ir.Func, *funcState, error) {
	paramTypes, err := e.paramTypes(ft)
	if err != nil {
		return nil, nil, err
	}
	if ret == nil {
		if ret, err = e.returnType(ft); err != nil {
			return nil, nil, err
		}
	}

	fs := newFuncState(nil)
	fn := e.mod.NewFunc(name, ret, fs.params(ft, paramTypes)...)
	fs.fn = fn
	return fn, fs, nil
}

// lowerFunction emits a function definition. An empty name picks a fresh
// lambda name. override, when set, replaces the body's value as the return
// value.
func (e *Emitter) lowerFunction(n *ast.Function, name string, ret types.Type, override value.Value) (*ir.Func, error) {
	if name == "" {
		name = e.uniqueMangle("lambda")
	}
	span := trace.Begin(e.tracer, trace.ScopeModule, "function", e.span)
	span.WithExtra("name", name)

	fn, fs, err := e.lowerFunctionInterface(n.Interface, name, ret)
	if err != nil {
		span.End("failed")
		return nil, err
	}

	entry := fn.NewBlock(fs.local("entry"))
	_, err = e.withScope(entry, fs, func() (value.Value, error) {
		for i, p := range n.Params() {
			if i < len(fn.Params) {
				e.bind(p.Name, fn.Params[i], false)
			}
		}
		body, err := e.lowerBlock(n.Body)
		if err != nil {
			return nil, err
		}
		if isVoid(fn.Sig.RetType) {
			e.block.NewRet(nil)
			return nil, nil
		}
		result := body
		if override != nil {
			result = override
		}
		if !result.Type().Equal(fn.Sig.RetType) {
			return nil, e.errorf(diag.GenReturnTypeMismatch,
				"function %q returns %s but its body yields %s", name, fn.Sig.RetType.String(), result.Type().String())
		}
		e.block.NewRet(result)
		return nil, nil
	})
	if err != nil {
		span.End("failed")
		return nil, err
	}
	span.WithExtra("params", strconv.Itoa(len(fn.Params))).End("ok")
	return fn, nil
}

// lowerExternalFunction declares a function provided at link time under its
// source name and binds it in the current scope.
func (e *Emitter) lowerExternalFunction(n *ast.ExternalFunction) (*ir.Func, error) {
	paramTypes, err := e.paramTypes(n.Interface)
	if err != nil {
		return nil, err
	}
	ret, err := e.returnType(n.Interface)
	if err != nil {
		return nil, err
	}

	if existing := e.findFunc(n.Name); existing != nil {
		if !existing.Sig.Equal(types.NewFunc(ret, paramTypes...)) {
			return nil, e.errorf(diag.GenDuplicateExternal,
				"external function %q is already declared with signature %s", n.Name, existing.Sig.String())
		}
		e.warnf(diag.GenDuplicateExternal, "external function %q is declared more than once", n.Name)
		e.bind(n.Name, existing, false)
		return existing, nil
	}

	fn := e.mod.NewFunc(n.Name, ret, newFuncState(nil).params(n.Interface, paramTypes)...)
	e.bind(n.Name, fn, false)
	return fn, nil
}

// params builds IR parameters with distinct names.
func (fs *funcState) params(ft *ast.FunctionType, paramTypes []types.Type) []*ir.Param {
	out := make([]*ir.Param, 0, len(paramTypes))
	for i, t := range paramTypes {
		out = append(out, ir.NewParam(fs.local(ft.Params[i].Name), t))
	}
	return out
}
