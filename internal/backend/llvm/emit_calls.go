package llvm

import (
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
)

// calleeSig returns the signature of a callable value: a function type or a
// pointer to one.
func calleeSig(v value.Value) (*types.FuncType, bool) {
	switch t := v.Type().(type) {
	case *types.FuncType:
		return t, true
	case *types.PointerType:
		sig, ok := t.ElemType.(*types.FuncType)
		return sig, ok
	default:
		return nil, false
	}
}

// lowerCall checks the callee and every argument before emitting the call.
// Arguments are compared by type category only.
func (e *Emitter) lowerCall(n *ast.Call) (value.Value, error) {
	callee, err := e.resolve(n.Callee)
	if err != nil {
		return nil, err
	}
	sig, ok := calleeSig(callee)
	if !ok {
		return nil, e.errorf(diag.GenNotCallable,
			"%q is not a function (its type is %s)", n.Callee, callee.Type().String())
	}
	if sig.Variadic || len(sig.Params) != len(n.Args) {
		return nil, e.errorf(diag.GenArityMismatch,
			"incorrect number of arguments passed to %q: want %d, got %d", n.Callee, len(sig.Params), len(n.Args))
	}

	args := make([]value.Value, 0, len(n.Args))
	for i, argNode := range n.Args {
		arg, err := e.lower(argNode)
		if err != nil {
			return nil, err
		}
		want := sig.Params[i]
		if categoryOf(arg.Type()) != categoryOf(want) {
			if bitCastable(arg.Type(), want) {
				e.warnf(diag.GenLosslessCastAvailable,
					"argument %d in call to %q could be bit-cast from %s to %s without loss", i, n.Callee, arg.Type().String(), want.String())
			}
			return nil, e.errorf(diag.GenArgumentTypeMismatch,
				"invalid type for argument %d in call to %q: want %s, got %s", i, n.Callee, want.String(), arg.Type().String())
		}
		args = append(args, arg)
	}

	call := e.block.NewCall(callee, args...)
	if !isVoid(sig.RetType) {
		call.SetName(e.localName(n.Callee + "_res"))
	}
	return call, nil
}

func bitCastable(from, to types.Type) bool {
	fb, ok := scalarBits(from)
	if !ok {
		return false
	}
	tb, ok := scalarBits(to)
	return ok && fb == tb
}
