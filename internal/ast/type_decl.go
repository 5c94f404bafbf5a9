package ast

// TypeKind enumerates source-level types a declaration may name.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeText
	TypeFunc
	TypeNamed
)

func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeText:
		return "Text"
	case TypeFunc:
		return "Func"
	case TypeNamed:
		return "Named"
	default:
		return "?"
	}
}

// TypeDeclaration is a type annotation. Name is only meaningful for TypeNamed.
type TypeDeclaration struct {
	Type TypeKind
	Name string
}

func (t *TypeDeclaration) String() string {
	if t == nil {
		return "?"
	}
	if t.Type == TypeNamed && t.Name != "" {
		return t.Name
	}
	return t.Type.String()
}

// Variable is a named binding with optional type annotation.
// A nil Type means the type is unknown; it is never inferred.
type Variable struct {
	Name    string
	Mutable bool
	Type    *TypeDeclaration
}

// HasUnknownType reports whether the variable carries no usable annotation.
func (v *Variable) HasUnknownType() bool {
	return v.Type == nil || v.Type.Type == TypeUnknown
}

// VariableList keeps declaration order. Duplicate names are allowed; later
// entries shadow earlier ones once bound.
type VariableList []*Variable

// FunctionType is the interface of a function: parameters and result types.
type FunctionType struct {
	Params  VariableList
	Returns []*TypeDeclaration
}
