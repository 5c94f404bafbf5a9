package llvm

import (
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
	"hue/internal/trace"
)

// lower dispatches on the node variant. Every error it returns has already
// been reported.
func (e *Emitter) lower(node ast.Node) (value.Value, error) {
	if node == nil {
		return nil, e.errorf(diag.GenUnsupportedNode, "unable to generate code for a missing node")
	}
	trace.Point(e.tracer, trace.ScopeNode, "lower", node.Kind().String(), e.span)

	switch n := node.(type) {
	case *ast.IntLiteral:
		return e.lowerIntLiteral(n)
	case *ast.FloatLiteral:
		return e.lowerFloatLiteral(n)
	case *ast.BoolLiteral:
		return e.lowerBoolLiteral(n), nil
	case *ast.TextLiteral:
		return e.lowerTextLiteral(n)
	case *ast.Symbol:
		return e.resolve(n.Name)
	case *ast.Binary:
		return e.lowerBinary(n)
	case *ast.Assignment:
		return e.lowerAssignment(n)
	case *ast.Call:
		return e.lowerCall(n)
	case *ast.Block:
		return e.withScope(e.block, nil, func() (value.Value, error) {
			return e.lowerBlock(n)
		})
	case *ast.Function:
		fn, err := e.lowerFunction(n, "", nil, nil)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case *ast.ExternalFunction:
		fn, err := e.lowerExternalFunction(n)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case *ast.Variable, *ast.TypeDeclaration:
		return nil, e.errorf(diag.GenUnsupportedNode, "%s is not an expression", node.String())
	default:
		return nil, e.errorf(diag.GenUnsupportedNode, "unable to generate code for %s", node.String())
	}
}

// lowerBlock lowers statements in order and yields the value of the last
// one. The first failing statement stops the block.
func (e *Emitter) lowerBlock(b *ast.Block) (value.Value, error) {
	var last value.Value
	if b != nil {
		for _, n := range b.Nodes {
			v, err := e.lower(n)
			if err != nil {
				return nil, err
			}
			last = v
		}
	}
	if last == nil || isVoid(last.Type()) {
		return nil, e.errorf(diag.GenEmptyBlock, "block produces no value")
	}
	return last, nil
}
