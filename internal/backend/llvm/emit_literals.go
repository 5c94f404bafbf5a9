package llvm

import (
	"errors"
	"strconv"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"hue/internal/ast"
	"hue/internal/diag"
)

func (e *Emitter) lowerIntLiteral(n *ast.IntLiteral) (value.Value, error) {
	radix := n.Radix
	if radix == 0 {
		radix = 10
	}
	if radix < 2 || radix > 36 {
		return nil, e.errorf(diag.GenInvalidLiteral, "integer literal %q has invalid radix %d", n.Text, n.Radix)
	}
	v, err := strconv.ParseInt(n.Text, radix, 64)
	if err != nil {
		// Literals up to 2^64-1 wrap into i64 like any other 64-bit pattern.
		u, uerr := strconv.ParseUint(n.Text, radix, 64)
		if uerr != nil {
			return nil, e.errorf(diag.GenInvalidLiteral, "invalid integer literal %q (radix %d): %v", n.Text, radix, literalCause(err))
		}
		v = int64(u) //nolint:gosec // two's complement wrap is intended
	}
	return constant.NewInt(types.I64, v), nil
}

func literalCause(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}

func (e *Emitter) lowerFloatLiteral(n *ast.FloatLiteral) (value.Value, error) {
	f, err := strconv.ParseFloat(n.Text, 64)
	if err != nil {
		return nil, e.errorf(diag.GenInvalidLiteral, "invalid float literal %q: %v", n.Text, literalCause(err))
	}
	return constant.NewFloat(types.Double, f), nil
}

func (e *Emitter) lowerBoolLiteral(n *ast.BoolLiteral) value.Value {
	return constant.NewBool(n.Value)
}

// lowerTextLiteral stores the code points of the text in a private constant
// global laid out as <{i64 len, [len x i32]}> and yields an array descriptor
// pointing at it.
func (e *Emitter) lowerTextLiteral(n *ast.TextLiteral) (value.Value, error) {
	runes := []rune(n.Value)
	count, err := safecast.Conv[uint64](len(runes))
	if err != nil {
		return nil, e.errorf(diag.GenInvalidLiteral, "text literal is too long: %v", err)
	}
	length := constant.NewInt(types.I64, int64(len(runes)))

	dataType := types.NewArray(count, types.I32)
	var data constant.Constant
	if len(runes) == 0 {
		data = constant.NewZeroInitializer(dataType)
	} else {
		elems := make([]constant.Constant, 0, len(runes))
		for _, r := range runes {
			elems = append(elems, constant.NewInt(types.I32, int64(r)))
		}
		data = constant.NewArray(dataType, elems...)
	}

	holderType := types.NewStruct(types.I64, dataType)
	holderType.Packed = true
	g := e.mod.NewGlobalDef(e.uniqueMangle("text"), constant.NewStruct(holderType, length, data))
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr

	first := constant.NewGetElementPtr(holderType, g,
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, 1),
		constant.NewInt(types.I64, 0),
	)
	return constant.NewStruct(e.ArrayStructType(types.I32), length, first), nil
}
