package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
)

// lowerAssignment binds one variable. Immutable bindings alias the value
// itself; mutable ones get a stack cell that later reads load from.
// The assignment evaluates to the assigned value.
func (e *Emitter) lowerAssignment(n *ast.Assignment) (value.Value, error) {
	if len(n.Vars) != 1 {
		return nil, e.errorf(diag.GenMultipleReturnsUnsupported,
			"assignment to %d variables needs multiple return values, which are not supported", len(n.Vars))
	}
	v := n.Vars[0]

	if fnNode, ok := n.RHS.(*ast.Function); ok {
		if !v.HasUnknownType() && v.Type.Type != ast.TypeFunc {
			return nil, e.errorf(diag.GenAssignmentTypeMismatch,
				"cannot assign a function to %q declared as %s", v.Name, v.Type.String())
		}
		fn, err := e.lowerFunction(fnNode, e.uniqueMangle(v.Name), nil, nil)
		if err != nil {
			return nil, err
		}
		e.bind(v.Name, fn, false)
		return fn, nil
	}

	rhs, err := e.lower(n.RHS)
	if err != nil {
		return nil, err
	}
	if isVoid(rhs.Type()) {
		return nil, e.errorf(diag.GenAssignmentTypeMismatch, "cannot assign a void value to %q", v.Name)
	}
	if !v.HasUnknownType() {
		want, err := e.mapType(v.Type, "variable "+v.Name)
		if err != nil {
			return nil, err
		}
		if !want.Equal(rhs.Type()) {
			return nil, e.errorf(diag.GenAssignmentTypeMismatch,
				"cannot assign a value of type %s to %q declared as %s", rhs.Type().String(), v.Name, v.Type.String())
		}
	}

	if !v.Mutable {
		e.nameValue(rhs, v.Name)
		e.bind(v.Name, rhs, false)
		return rhs, nil
	}

	if cell := e.mutableCell(v.Name); cell != nil && cell.ElemType.Equal(rhs.Type()) {
		e.block.NewStore(rhs, cell)
		return rhs, nil
	}
	cell := e.block.NewAlloca(rhs.Type())
	cell.SetName(e.localName(v.Name))
	e.block.NewStore(rhs, cell)
	e.bind(v.Name, cell, true)
	return rhs, nil
}

// mutableCell finds a mutable binding of name in the current function.
func (e *Emitter) mutableCell(name string) *ir.InstAlloca {
	sym := e.lookup(name)
	cur := e.current()
	if sym.Empty() || !sym.Mutable || cur == nil || sym.Frame != cur.frame {
		return nil
	}
	cell, _ := sym.Value.(*ir.InstAlloca)
	return cell
}

// nameValue gives an instruction result the variable's name so the printed
// IR reads like the source. Only the first variable bound to a value names
// it; later aliases leave it alone.
func (e *Emitter) nameValue(v value.Value, name string) {
	if _, ok := v.(ir.Instruction); !ok {
		return
	}
	if _, done := e.varNamed[v]; done {
		return
	}
	if named, ok := v.(value.Named); ok {
		named.SetName(e.localName(name))
		e.varNamed[v] = struct{}{}
	}
}
