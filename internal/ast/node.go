package ast

// Kind identifies a node variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIntLiteral
	KindFloatLiteral
	KindBoolLiteral
	KindTextLiteral
	KindSymbol
	KindBinary
	KindAssignment
	KindCall
	KindBlock
	KindFunction
	KindExternalFunction
	KindVariable
	KindTypeDeclaration
)

func (k Kind) String() string {
	switch k {
	case KindIntLiteral:
		return "IntLiteral"
	case KindFloatLiteral:
		return "FloatLiteral"
	case KindBoolLiteral:
		return "BoolLiteral"
	case KindTextLiteral:
		return "TextLiteral"
	case KindSymbol:
		return "Symbol"
	case KindBinary:
		return "Binary"
	case KindAssignment:
		return "Assignment"
	case KindCall:
		return "Call"
	case KindBlock:
		return "Block"
	case KindFunction:
		return "Function"
	case KindExternalFunction:
		return "ExternalFunction"
	case KindVariable:
		return "Variable"
	case KindTypeDeclaration:
		return "TypeDeclaration"
	default:
		return "Invalid"
	}
}

// Node is the closed set of tree nodes handed over by the parser.
// Trees are immutable once built; consumers borrow them for the duration of a pass.
type Node interface {
	Kind() Kind
	String() string
	node()
}

// IntLiteral is an integer literal such as "42" or "ff" with Radix 16.
type IntLiteral struct {
	Text  string
	Radix int // 0 means 10
}

// FloatLiteral is a fractional literal like "1.5".
type FloatLiteral struct {
	Text string
}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value bool
}

// TextLiteral is a quoted piece of text.
type TextLiteral struct {
	Value string
}

// Symbol references a name, like "a".
type Symbol struct {
	Name string
}

// Binary is an infix operation.
type Binary struct {
	Op  string
	LHS Node
	RHS Node
}

// Assignment binds the value of RHS to Vars, e.g. `foo = 5`.
type Assignment struct {
	Vars VariableList
	RHS  Node
}

// Call invokes the function bound to Callee.
type Call struct {
	Callee string
	Args   []Node
}

// Block is a sequence of expressions. Its value is the value of the last one.
type Block struct {
	Nodes []Node
}

// Function is a function literal with an interface and a body.
type Function struct {
	Interface *FunctionType
	Body      *Block
}

// ExternalFunction declares a function implemented elsewhere.
type ExternalFunction struct {
	Name      string
	Interface *FunctionType
}

func (*IntLiteral) Kind() Kind       { return KindIntLiteral }
func (*FloatLiteral) Kind() Kind     { return KindFloatLiteral }
func (*BoolLiteral) Kind() Kind      { return KindBoolLiteral }
func (*TextLiteral) Kind() Kind      { return KindTextLiteral }
func (*Symbol) Kind() Kind           { return KindSymbol }
func (*Binary) Kind() Kind           { return KindBinary }
func (*Assignment) Kind() Kind       { return KindAssignment }
func (*Call) Kind() Kind             { return KindCall }
func (*Block) Kind() Kind            { return KindBlock }
func (*Function) Kind() Kind         { return KindFunction }
func (*ExternalFunction) Kind() Kind { return KindExternalFunction }
func (*Variable) Kind() Kind         { return KindVariable }
func (*TypeDeclaration) Kind() Kind  { return KindTypeDeclaration }

func (*IntLiteral) node()       {}
func (*FloatLiteral) node()     {}
func (*BoolLiteral) node()      {}
func (*TextLiteral) node()      {}
func (*Symbol) node()           {}
func (*Binary) node()           {}
func (*Assignment) node()       {}
func (*Call) node()             {}
func (*Block) node()            {}
func (*Function) node()         {}
func (*ExternalFunction) node() {}
func (*Variable) node()         {}
func (*TypeDeclaration) node()  {}

// Params returns the parameter list, tolerating a nil interface.
func (f *Function) Params() VariableList {
	if f == nil || f.Interface == nil {
		return nil
	}
	return f.Interface.Params
}

// Returns returns the declared result types, tolerating a nil interface.
func (f *Function) Returns() []*TypeDeclaration {
	if f == nil || f.Interface == nil {
		return nil
	}
	return f.Interface.Returns
}
