package llvm

import (
	"github.com/llir/llvm/ir/types"

	"hue/internal/ast"
	"hue/internal/diag"
)

// MapType returns the IR type for a source annotation. Only Int and Float
// have a mapping today.
func MapType(decl *ast.TypeDeclaration) (types.Type, bool) {
	if decl == nil {
		return nil, false
	}
	switch decl.Type {
	case ast.TypeInt:
		return types.I64, true
	case ast.TypeFloat:
		return types.Double, true
	default:
		return nil, false
	}
}

func (e *Emitter) mapType(decl *ast.TypeDeclaration, what string) (types.Type, error) {
	t, ok := MapType(decl)
	if !ok {
		return nil, e.errorf(diag.GenUnsupportedType, "no conversion for type %s of %s to an IR type", decl.String(), what)
	}
	return t, nil
}

// returnType maps a function interface to its IR result type.
func (e *Emitter) returnType(ft *ast.FunctionType) (types.Type, error) {
	var rets []*ast.TypeDeclaration
	if ft != nil {
		rets = ft.Returns
	}
	switch len(rets) {
	case 0:
		return types.Void, nil
	case 1:
		return e.mapType(rets[0], "the function result")
	default:
		return nil, e.errorf(diag.GenMultipleReturnsUnsupported,
			"function declares %d results; multiple return values are not supported", len(rets))
	}
}

func (e *Emitter) paramTypes(ft *ast.FunctionType) ([]types.Type, error) {
	if ft == nil {
		return nil, nil
	}
	out := make([]types.Type, 0, len(ft.Params))
	for _, p := range ft.Params {
		if p.HasUnknownType() {
			return nil, e.errorf(diag.GenUnsupportedType,
				"parameter %q has no type; runtime type inference of function arguments is not supported", p.Name)
		}
		t, err := e.mapType(p.Type, "parameter "+p.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// category groups IR types for compatibility checks. Two values are
// compatible when their categories match.
type category uint8

const (
	catOther category = iota
	catVoid
	catInteger
	catFloat
	catPointer
	catFunction
	catStruct
	catArray
)

func (c category) String() string {
	switch c {
	case catVoid:
		return "void"
	case catInteger:
		return "integer"
	case catFloat:
		return "float"
	case catPointer:
		return "pointer"
	case catFunction:
		return "function"
	case catStruct:
		return "struct"
	case catArray:
		return "array"
	default:
		return "other"
	}
}

func categoryOf(t types.Type) category {
	switch t.(type) {
	case *types.VoidType:
		return catVoid
	case *types.IntType:
		return catInteger
	case *types.FloatType:
		return catFloat
	case *types.PointerType:
		return catPointer
	case *types.FuncType:
		return catFunction
	case *types.StructType:
		return catStruct
	case *types.ArrayType:
		return catArray
	default:
		return catOther
	}
}

func isVoid(t types.Type) bool {
	_, ok := t.(*types.VoidType)
	return ok
}

// scalarBits reports the width of integer and floating-point types.
func scalarBits(t types.Type) (uint64, bool) {
	switch t := t.(type) {
	case *types.IntType:
		return t.BitSize, true
	case *types.FloatType:
		switch t.Kind {
		case types.FloatKindHalf:
			return 16, true
		case types.FloatKindFloat:
			return 32, true
		case types.FloatKindDouble:
			return 64, true
		}
	}
	return 0, false
}

// ArrayStructType returns the packed {i64 length, elem* data} descriptor for
// elem. One struct type exists per element type per pass.
func (e *Emitter) ArrayStructType(elem types.Type) *types.StructType {
	if st, ok := e.arrayTypes[elem]; ok {
		return st
	}
	st := types.NewStruct(types.I64, types.NewPointer(elem))
	st.Packed = true
	e.arrayTypes[elem] = st
	return st
}
