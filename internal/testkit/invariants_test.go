package testkit

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

func validModule() (*ir.Module, *ir.Func) {
	m := ir.NewModule()
	main := m.NewFunc("main", types.I64)
	main.NewBlock("entry").NewRet(constant.NewInt(types.I64, 0))
	return m, main
}

func TestCheckModuleInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *ir.Module, main *ir.Func)
		want   string
	}{
		{name: "valid", mutate: func(*ir.Module, *ir.Func) {}},
		{name: "missing entry", mutate: func(_ *ir.Module, main *ir.Func) { main.SetName("start") }, want: "not found"},
		{name: "duplicate function", mutate: func(m *ir.Module, _ *ir.Func) { m.NewFunc("main", types.I64) }, want: "defined twice"},
		{name: "unterminated block", mutate: func(_ *ir.Module, main *ir.Func) { main.NewBlock("dangling") }, want: "no terminator"},
		{name: "wrong ret type", mutate: func(m *ir.Module, _ *ir.Func) {
			f := m.NewFunc("f", types.Double)
			f.NewBlock("entry").NewRet(constant.NewInt(types.I64, 1))
		}, want: "ret i64"},
		{name: "duplicate local", mutate: func(m *ir.Module, _ *ir.Func) {
			a, b := ir.NewParam("x", types.I64), ir.NewParam("x", types.I64)
			f := m.NewFunc("g", types.I64, a, b)
			f.NewBlock("entry").NewRet(a)
		}, want: "used twice"},
		{name: "mutable private global", mutate: func(m *ir.Module, _ *ir.Func) {
			g := m.NewGlobalDef("m$text", constant.NewInt(types.I64, 0))
			g.Linkage = enum.LinkagePrivate
		}, want: "mutable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, main := validModule()
			tt.mutate(m, main)
			err := CheckModuleInvariants(m, "main")
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
