package llvm

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"hue/internal/ast"
	"hue/internal/diag"
	"hue/internal/testkit"
)

// openFunc prepares e for lowering statements directly into a fresh function
// body, the way lowerFunction does.
func openFunc(t *testing.T, e *Emitter, name string) *ir.Block {
	t.Helper()
	e.reset("test")
	fn := e.mod.NewFunc(name, types.I64)
	entry := fn.NewBlock("entry")
	e.enterScope(entry, newFuncState(fn))
	return entry
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	return len(bag.WithCode(code)) > 0
}

func TestShadowAndRestore(t *testing.T) {
	e := New(Options{})
	entry := openFunc(t, e, "f")
	outer := constant.NewInt(types.I64, 1)
	inner := constant.NewInt(types.I64, 2)

	e.bind("x", outer, false)
	e.enterScope(entry, nil)
	e.bind("x", inner, false)
	if got := e.lookup("x").Value; got != inner {
		t.Fatalf("nested scope: expected inner binding, got %v", got)
	}
	e.exitScope()
	if got := e.lookup("x").Value; got != outer {
		t.Fatalf("after exit: expected outer binding, got %v", got)
	}
	e.exitScope()
	if !e.lookup("x").Empty() {
		t.Fatalf("no scopes left, lookup must be empty")
	}
	if e.Depth() != 0 {
		t.Fatalf("depth: got %d", e.Depth())
	}
}

func TestUniqueMangle(t *testing.T) {
	e := New(Options{})
	e.reset("m")
	e.mod.NewFunc("m$tmp", types.Void)
	e.mod.NewGlobalDef("m$tmp$$1", constant.NewInt(types.I64, 0))

	a := e.uniqueMangle("tmp")
	b := e.uniqueMangle("tmp")
	if a == b {
		t.Fatalf("expected distinct names, both %q", a)
	}
	for _, name := range []string{a, b} {
		if name == "m$tmp" || name == "m$tmp$$1" {
			t.Fatalf("%q collides with an existing module name", name)
		}
		if !strings.HasPrefix(name, "m$tmp$$") {
			t.Fatalf("unexpected mangled form %q", name)
		}
	}
	if a != "m$tmp$$2" || b != "m$tmp$$3" {
		t.Fatalf("expected smallest free suffixes, got %q and %q", a, b)
	}
	if got := e.uniqueMangle("fresh"); got != "m$fresh" {
		t.Fatalf("unused base should not get a suffix, got %q", got)
	}
}

func TestHappyPathAdd(t *testing.T) {
	add := ast.Func(ast.Sig(ast.VariableList{ast.Let("a", ast.TypeInt), ast.Let("b", ast.TypeInt)}, ast.TypeInt),
		ast.Bin("+", ast.Sym("a"), ast.Sym("b")),
	)
	root := ast.Func(nil,
		ast.Assign(ast.Let("f", ast.TypeUnknown), add),
		ast.CallOf("f", ast.Int(1), ast.Int(2)),
	)
	mod, bag := GenModule("hello", root, Options{})
	if mod == nil {
		t.Fatalf("expected a module, errors: %v", bag.Errors())
	}
	if bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics, got %v", bag.Items())
	}
	if err := testkit.CheckModuleInvariants(mod, EntryName); err != nil {
		t.Fatalf("invalid module: %v", err)
	}

	var f, main *ir.Func
	for _, fn := range mod.Funcs {
		switch fn.Name() {
		case "hello$f":
			f = fn
		case EntryName:
			main = fn
		}
	}
	if f == nil || main == nil {
		t.Fatalf("expected hello$f and main, got %d functions", len(mod.Funcs))
	}
	if len(f.Params) != 2 || !f.Params[0].Type().Equal(types.I64) || !f.Params[1].Type().Equal(types.I64) {
		t.Fatalf("expected (i64, i64) parameters, got %v", f.Sig)
	}
	body := f.Blocks[0]
	if len(body.Insts) != 1 {
		t.Fatalf("expected a single instruction, got %d", len(body.Insts))
	}
	sum, ok := body.Insts[0].(*ir.InstAdd)
	if !ok || sum.X != f.Params[0] || sum.Y != f.Params[1] {
		t.Fatalf("expected add of both parameters, got %v", body.Insts[0])
	}
	ret, ok := body.Term.(*ir.TermRet)
	if !ok || ret.X != sum {
		t.Fatalf("expected ret of the sum, got %v", body.Term)
	}

	mainRet, ok := main.Blocks[0].Term.(*ir.TermRet)
	if !ok {
		t.Fatalf("main has no ret terminator")
	}
	if c, ok := mainRet.X.(*constant.Int); !ok || c.X.Int64() != 0 {
		t.Fatalf("main must return the constant 0, got %v", mainRet.X)
	}
	call, ok := main.Blocks[0].Insts[0].(*ir.InstCall)
	if !ok || call.Callee != f || call.Name() != "f_res" {
		t.Fatalf("expected call f_res to hello$f, got %v", main.Blocks[0].Insts[0])
	}
}

func TestUnknownSymbol(t *testing.T) {
	root := ast.Func(nil, ast.CallOf("undefined_fn", ast.Int(1)))
	mod, bag := GenModule("m", root, Options{})
	if mod != nil {
		t.Fatalf("expected no module")
	}
	errs := bag.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if !strings.Contains(errs[0], "undefined_fn") || !hasCode(bag, diag.GenUnknownSymbol) {
		t.Fatalf("expected UnknownSymbol for undefined_fn, got %q", errs[0])
	}
}

func TestArityMismatchEmitsNoCall(t *testing.T) {
	e := New(Options{})
	entry := openFunc(t, e, "caller")
	noArgs := e.mod.NewFunc("m$nullary", types.I64)
	e.bind("nullary", noArgs, false)

	_, err := e.lower(ast.CallOf("nullary", ast.Int(1)))
	if !errors.Is(err, &diag.Failure{Code: diag.GenArityMismatch}) {
		t.Fatalf("expected ArityMismatch failure, got %v", err)
	}
	for _, inst := range entry.Insts {
		if _, ok := inst.(*ir.InstCall); ok {
			t.Fatalf("no call instruction may be emitted")
		}
	}
	errs := e.Errors()
	if len(errs) != 1 || !strings.Contains(errs[0], "nullary") {
		t.Fatalf("expected one diagnostic naming the callee, got %v", errs)
	}
}

func TestBlockShortCircuits(t *testing.T) {
	root := ast.Func(nil,
		ast.Assign(ast.Let("x", ast.TypeUnknown), ast.Int(1)),
		ast.CallOf("first_missing"),
		ast.CallOf("second_missing"),
	)
	e := New(Options{})
	if mod := e.GenModule("m", root); mod != nil {
		t.Fatalf("expected no module")
	}
	errs := e.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected a single error, got %v", errs)
	}
	if strings.Contains(errs[0], "second_missing") {
		t.Fatalf("statement after the failure was lowered: %v", errs)
	}
	if e.Depth() != 0 {
		t.Fatalf("scopes leaked: depth %d", e.Depth())
	}
}

func TestModuleIffNoErrors(t *testing.T) {
	intSig := ast.Sig(ast.VariableList{ast.Let("n", ast.TypeInt)}, ast.TypeInt)
	cases := []struct {
		name string
		root *ast.Function
		code diag.Code
	}{
		{"ok", ast.Func(nil, ast.Int(1)), diag.UnknownCode},
		{"empty root", ast.Func(nil), diag.GenEmptyBlock},
		{"not callable", ast.Func(nil, ast.Assign(ast.Let("x", ast.TypeUnknown), ast.Int(1)), ast.CallOf("x")), diag.GenNotCallable},
		{"argument type", ast.Func(nil,
			ast.Extern("abs", intSig),
			ast.CallOf("abs", ast.Float(1.5)),
		), diag.GenArgumentTypeMismatch},
		{"untyped parameter", ast.Func(nil,
			ast.Assign(ast.Let("g", ast.TypeUnknown), ast.Func(ast.Sig(ast.VariableList{ast.Let("p", ast.TypeUnknown)}, ast.TypeInt), ast.Sym("p"))),
			ast.Int(0),
		), diag.GenUnsupportedType},
		{"unmapped type", ast.Func(nil, ast.Assign(ast.Let("b", ast.TypeBool), ast.Bool(true))), diag.GenUnsupportedType},
		{"multiple results", ast.Func(nil,
			ast.Extern("pair", ast.Sig(nil, ast.TypeInt, ast.TypeInt)),
			ast.Int(0),
		), diag.GenMultipleReturnsUnsupported},
		{"multiple variables", ast.Func(nil,
			&ast.Assignment{Vars: ast.VariableList{ast.Let("a", ast.TypeUnknown), ast.Let("b", ast.TypeUnknown)}, RHS: ast.Int(1)},
		), diag.GenMultipleReturnsUnsupported},
		{"operand types", ast.Func(nil, ast.Bin("+", ast.Int(1), ast.Float(2))), diag.GenOperandTypeMismatch},
		{"operator", ast.Func(nil, ast.Bin("%", ast.Int(1), ast.Int(2))), diag.GenUnsupportedOperator},
		{"declared type", ast.Func(nil, ast.Assign(ast.Let("i", ast.TypeInt), ast.Float(1))), diag.GenAssignmentTypeMismatch},
		{"return type", ast.Func(nil,
			ast.Assign(ast.Let("h", ast.TypeUnknown), ast.Func(ast.Sig(nil, ast.TypeInt), ast.Float(1))),
			ast.Int(0),
		), diag.GenReturnTypeMismatch},
		{"comparison declared as int", ast.Func(nil, ast.Assign(ast.Let("i", ast.TypeInt), ast.Bin("<", ast.Int(1), ast.Int(2)))), diag.GenAssignmentTypeMismatch},
		{"comparison returned as int", ast.Func(nil,
			ast.Assign(ast.Let("h", ast.TypeUnknown), ast.Func(ast.Sig(nil, ast.TypeInt), ast.Bin("<", ast.Int(1), ast.Int(2)))),
			ast.Int(0),
		), diag.GenReturnTypeMismatch},
		{"root parameters", ast.Func(intSig, ast.Sym("n")), diag.GenUnsupportedNode},
		{"literal", ast.Func(nil, &ast.IntLiteral{Text: "12z"}), diag.GenInvalidLiteral},
		{"stray variable", ast.Func(nil, ast.Let("v", ast.TypeInt)), diag.GenUnsupportedNode},
		{"stray type", ast.Func(nil, ast.Type(ast.TypeInt)), diag.GenUnsupportedNode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mod, bag := GenModule("m", tc.root, Options{})
			wantErrors := 0
			if tc.code != diag.UnknownCode {
				wantErrors = 1
			}
			if got := len(bag.Errors()); got != wantErrors {
				t.Fatalf("expected %d errors, got %v", wantErrors, bag.Errors())
			}
			if (mod != nil) != (wantErrors == 0) {
				t.Fatalf("module returned=%v with %d errors", mod != nil, wantErrors)
			}
			if mod != nil {
				if err := testkit.CheckModuleInvariants(mod, EntryName); err != nil {
					t.Fatalf("invalid module: %v", err)
				}
			}
			if wantErrors > 0 && !hasCode(bag, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code.ID(), bag.Errors())
			}
		})
	}
}

func TestAliasKeepsFirstVariableName(t *testing.T) {
	root := ast.Func(nil,
		ast.Assign(ast.Let("x", ast.TypeUnknown), ast.Bin("+", ast.Int(1), ast.Int(2))),
		ast.Assign(ast.Let("y", ast.TypeUnknown), ast.Sym("x")),
	)
	mod, bag := GenModule("m", root, Options{})
	if mod == nil {
		t.Fatalf("expected a module, errors: %v", bag.Errors())
	}
	if err := testkit.CheckModuleInvariants(mod, EntryName); err != nil {
		t.Fatalf("invalid module: %v", err)
	}
	sum, ok := mod.Funcs[0].Blocks[0].Insts[0].(*ir.InstAdd)
	if !ok {
		t.Fatalf("expected the add first, got %v", mod.Funcs[0].Blocks[0].Insts)
	}
	if sum.Name() != "x" {
		t.Fatalf("rebinding renamed the value to %q", sum.Name())
	}
}

func TestLosslessCastWarning(t *testing.T) {
	root := ast.Func(nil,
		ast.Extern("abs", ast.Sig(ast.VariableList{ast.Let("n", ast.TypeInt)}, ast.TypeInt)),
		ast.CallOf("abs", ast.Float(2)),
	)
	_, bag := GenModule("m", root, Options{})
	if len(bag.Warnings()) != 1 || !hasCode(bag, diag.GenLosslessCastAvailable) {
		t.Fatalf("expected a lossless cast warning, got %v", bag.Warnings())
	}
	if !hasCode(bag, diag.GenArgumentTypeMismatch) {
		t.Fatalf("the mismatch must still be an error")
	}
}

func TestMutableVariableLoads(t *testing.T) {
	root := ast.Func(nil,
		ast.Assign(ast.Mut("x", ast.TypeInt), ast.Int(1)),
		ast.Assign(ast.Mut("x", ast.TypeInt), ast.Int(2)),
		ast.Sym("x"),
	)
	mod, bag := GenModule("m", root, Options{})
	if mod == nil {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	insts := mod.Funcs[0].Blocks[0].Insts
	var allocas, stores, loads int
	for _, inst := range insts {
		switch inst.(type) {
		case *ir.InstAlloca:
			allocas++
		case *ir.InstStore:
			stores++
		case *ir.InstLoad:
			loads++
		}
	}
	if allocas != 1 || stores != 2 || loads != 1 {
		t.Fatalf("expected 1 alloca, 2 stores, 1 load; got %d, %d, %d", allocas, stores, loads)
	}
}

func TestCaptureIsRejectedButGlobalsReach(t *testing.T) {
	helper := ast.Func(ast.Sig(nil, ast.TypeInt), ast.Int(7))
	usesGlobal := ast.Func(ast.Sig(nil, ast.TypeInt), ast.CallOf("helper"))
	root := ast.Func(nil,
		ast.Assign(ast.Let("helper", ast.TypeUnknown), helper),
		ast.Assign(ast.Let("outer", ast.TypeUnknown), usesGlobal),
		ast.CallOf("outer"),
	)
	if mod, bag := GenModule("m", root, Options{}); mod == nil {
		t.Fatalf("function values are global and must be reachable: %v", bag.Errors())
	}

	captures := ast.Func(ast.Sig(nil, ast.TypeInt), ast.Sym("local"))
	root = ast.Func(nil,
		ast.Assign(ast.Let("local", ast.TypeUnknown), ast.Bin("+", ast.Int(1), ast.Int(2))),
		ast.Assign(ast.Let("bad", ast.TypeUnknown), captures),
		ast.Int(0),
	)
	mod, bag := GenModule("m", root, Options{})
	if mod != nil || !hasCode(bag, diag.GenUnreachableSymbol) {
		t.Fatalf("expected UnreachableSymbol, got %v", bag.Errors())
	}
}

func TestNestedBlockSharesFrame(t *testing.T) {
	root := ast.Func(nil,
		ast.Assign(ast.Let("a", ast.TypeUnknown), ast.Int(1)),
		ast.BlockOf(
			ast.Assign(ast.Let("a", ast.TypeUnknown), ast.Float(2)),
			ast.Sym("a"),
		),
		ast.Sym("a"),
	)
	e := New(Options{})
	mod := e.GenModule("m", root)
	if mod == nil {
		t.Fatalf("outer locals must be visible in nested blocks: %v", e.Errors())
	}
	if e.Depth() != 0 {
		t.Fatalf("scopes leaked: depth %d", e.Depth())
	}
}

func TestExternalFunctions(t *testing.T) {
	sig := ast.Sig(ast.VariableList{ast.Let("n", ast.TypeInt)}, ast.TypeInt)
	root := ast.Func(nil,
		ast.Extern("abs", sig),
		ast.Extern("abs", sig),
		ast.CallOf("abs", ast.Int(-3)),
	)
	mod, bag := GenModule("m", root, Options{})
	if mod == nil {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	if err := testkit.CheckModuleInvariants(mod, EntryName); err != nil {
		t.Fatalf("invalid module: %v", err)
	}
	var decl *ir.Func
	count := 0
	for _, fn := range mod.Funcs {
		if fn.Name() == "abs" {
			decl = fn
			count++
		}
	}
	if count != 1 || len(decl.Blocks) != 0 {
		t.Fatalf("expected a single body-less declaration of abs, got %d", count)
	}
	if !hasCode(bag, diag.GenDuplicateExternal) || len(bag.Errors()) != 0 {
		t.Fatalf("redeclaration with the same signature is a warning: %v", bag.Items())
	}

	root = ast.Func(nil,
		ast.Extern("abs", sig),
		ast.Extern("abs", ast.Sig(nil, ast.TypeFloat)),
		ast.Int(0),
	)
	if mod, bag := GenModule("m", root, Options{}); mod != nil || !hasCode(bag, diag.GenDuplicateExternal) {
		t.Fatalf("conflicting redeclaration must fail")
	}
}

func TestTextLiteralSharesArrayType(t *testing.T) {
	root := ast.Func(nil,
		ast.Assign(ast.Let("a", ast.TypeUnknown), ast.Text("hé")),
		ast.Assign(ast.Let("b", ast.TypeUnknown), ast.Text("")),
		ast.Int(0),
	)
	e := New(Options{})
	mod := e.GenModule("m", root)
	if mod == nil {
		t.Fatalf("unexpected errors: %v", e.Errors())
	}
	if len(mod.Globals) != 2 {
		t.Fatalf("expected one global per literal, got %d", len(mod.Globals))
	}
	if mod.Globals[0].Name() == mod.Globals[1].Name() {
		t.Fatalf("literal globals share a name")
	}
	if len(e.arrayTypes) != 1 {
		t.Fatalf("expected a single cached array type, got %d", len(e.arrayTypes))
	}
	st := e.ArrayStructType(types.I32)
	if !st.Packed || len(st.Fields) != 2 || !st.Fields[0].Equal(types.I64) {
		t.Fatalf("unexpected array descriptor %v", st)
	}
}

func TestVoidFunctionAndEmptyBody(t *testing.T) {
	noop := ast.Func(nil, ast.Int(1))
	root := ast.Func(nil,
		ast.Assign(ast.Let("noop", ast.TypeUnknown), noop),
		ast.CallOf("noop"),
	)
	mod, bag := GenModule("m", root, Options{})
	if mod != nil || !hasCode(bag, diag.GenEmptyBlock) {
		t.Fatalf("a void call as the last statement produces no value: %v", bag.Errors())
	}

	root = ast.Func(nil,
		ast.Assign(ast.Let("noop", ast.TypeUnknown), noop),
		ast.CallOf("noop"),
		ast.Int(3),
	)
	mod, bag = GenModule("m", root, Options{})
	if mod == nil {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	for _, fn := range mod.Funcs {
		if fn.Name() != "m$noop" {
			continue
		}
		if ret, ok := fn.Blocks[0].Term.(*ir.TermRet); !ok || ret.X != nil {
			t.Fatalf("void function must end in ret void")
		}
	}
}

func TestDumpScopes(t *testing.T) {
	e := New(Options{})
	openFunc(t, e, "f")
	e.bind("b", constant.NewInt(types.I64, 1), false)
	e.bind("a", constant.NewFloat(types.Double, 1), true)
	var sb strings.Builder
	if err := e.DumpScopes(&sb); err != nil {
		t.Fatal(err)
	}
	want := "scope 1 (frame 1) {\n  a mut: double\n  b: i64\n}\n"
	if sb.String() != want {
		t.Fatalf("dump mismatch:\n%s", sb.String())
	}
}
