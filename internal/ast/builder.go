package ast

import "strconv"

// Helpers for assembling trees by hand, mostly in tests and tooling.

func Int(v int64) *IntLiteral {
	return &IntLiteral{Text: strconv.FormatInt(v, 10), Radix: 10}
}

func Float(v float64) *FloatLiteral {
	return &FloatLiteral{Text: strconv.FormatFloat(v, 'g', -1, 64)}
}

func Bool(v bool) *BoolLiteral { return &BoolLiteral{Value: v} }

func Text(v string) *TextLiteral { return &TextLiteral{Value: v} }

func Sym(name string) *Symbol { return &Symbol{Name: name} }

func Bin(op string, lhs, rhs Node) *Binary {
	return &Binary{Op: op, LHS: lhs, RHS: rhs}
}

func CallOf(callee string, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

func BlockOf(nodes ...Node) *Block { return &Block{Nodes: nodes} }

// Assign binds rhs to a single variable.
func Assign(v *Variable, rhs Node) *Assignment {
	return &Assignment{Vars: VariableList{v}, RHS: rhs}
}

// Let is an immutable variable with an optional type (TypeUnknown leaves it unannotated).
func Let(name string, kind TypeKind) *Variable {
	return newVar(name, false, kind)
}

// Mut is a mutable variable with an optional type.
func Mut(name string, kind TypeKind) *Variable {
	return newVar(name, true, kind)
}

func newVar(name string, mutable bool, kind TypeKind) *Variable {
	v := &Variable{Name: name, Mutable: mutable}
	if kind != TypeUnknown {
		v.Type = &TypeDeclaration{Type: kind}
	}
	return v
}

func Type(kind TypeKind) *TypeDeclaration { return &TypeDeclaration{Type: kind} }

// Sig builds a function interface.
func Sig(params VariableList, returns ...TypeKind) *FunctionType {
	ft := &FunctionType{Params: params}
	for _, r := range returns {
		ft.Returns = append(ft.Returns, Type(r))
	}
	return ft
}

func Func(sig *FunctionType, body ...Node) *Function {
	return &Function{Interface: sig, Body: BlockOf(body...)}
}

func Extern(name string, sig *FunctionType) *ExternalFunction {
	return &ExternalFunction{Name: name, Interface: sig}
}
