package llvm

import (
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
)

var intPredicates = map[string]enum.IPred{
	"<":  enum.IPredSLT,
	">":  enum.IPredSGT,
	"<=": enum.IPredSLE,
	">=": enum.IPredSGE,
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
}

var floatPredicates = map[string]enum.FPred{
	"<":  enum.FPredOLT,
	">":  enum.FPredOGT,
	"<=": enum.FPredOLE,
	">=": enum.FPredOGE,
	"==": enum.FPredOEQ,
	"!=": enum.FPredONE,
}

func (e *Emitter) lowerBinary(n *ast.Binary) (value.Value, error) {
	lhs, err := e.lower(n.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := e.lower(n.RHS)
	if err != nil {
		return nil, err
	}
	if !lhs.Type().Equal(rhs.Type()) {
		return nil, e.errorf(diag.GenOperandTypeMismatch,
			"operands of %q have different types (%s and %s)", n.Op, lhs.Type().String(), rhs.Type().String())
	}

	switch categoryOf(lhs.Type()) {
	case catInteger:
		if v := e.intBinary(n.Op, lhs, rhs); v != nil {
			return v, nil
		}
	case catFloat:
		if v := e.floatBinary(n.Op, lhs, rhs); v != nil {
			return v, nil
		}
	}
	return nil, e.errorf(diag.GenUnsupportedOperator,
		"operator %q is not defined for %s operands", n.Op, lhs.Type().String())
}

func (e *Emitter) intBinary(op string, x, y value.Value) value.Value {
	b := e.block
	switch op {
	case "+":
		inst := b.NewAdd(x, y)
		inst.SetName(e.localName("add"))
		return inst
	case "-":
		inst := b.NewSub(x, y)
		inst.SetName(e.localName("sub"))
		return inst
	case "*":
		inst := b.NewMul(x, y)
		inst.SetName(e.localName("mul"))
		return inst
	case "/":
		inst := b.NewSDiv(x, y)
		inst.SetName(e.localName("div"))
		return inst
	}
	if pred, ok := intPredicates[op]; ok {
		inst := b.NewICmp(pred, x, y)
		inst.SetName(e.localName("cmp"))
		return inst
	}
	return nil
}

func (e *Emitter) floatBinary(op string, x, y value.Value) value.Value {
	b := e.block
	switch op {
	case "+":
		inst := b.NewFAdd(x, y)
		inst.SetName(e.localName("add"))
		return inst
	case "-":
		inst := b.NewFSub(x, y)
		inst.SetName(e.localName("sub"))
		return inst
	case "*":
		inst := b.NewFMul(x, y)
		inst.SetName(e.localName("mul"))
		return inst
	case "/":
		inst := b.NewFDiv(x, y)
		inst.SetName(e.localName("div"))
		return inst
	}
	if pred, ok := floatPredicates[op]; ok {
		inst := b.NewFCmp(pred, x, y)
		inst.SetName(e.localName("cmp"))
		return inst
	}
	return nil
}
