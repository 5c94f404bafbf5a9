package testkit

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// CheckModuleInvariants runs structural checks on a lowered module:
// 1) entry exists, takes no parameters and returns i64
// 2) function and global names are unique module-wide
// 3) every block of a defined function ends in a terminator
// 4) every ret agrees with its function's return type
// 5) named locals (params, blocks, instructions) are unique per function
// 6) private globals are immutable
func CheckModuleInvariants(mod *ir.Module, entry string) error {
	if mod == nil {
		return fmt.Errorf("nil module")
	}

	globals := make(map[string]struct{}, len(mod.Funcs)+len(mod.Globals))
	claim := func(name string) error {
		if _, dup := globals[name]; dup {
			return fmt.Errorf("global name %q is defined twice", name)
		}
		globals[name] = struct{}{}
		return nil
	}

	var entryFn *ir.Func
	for _, f := range mod.Funcs {
		if err := claim(f.Name()); err != nil {
			return err
		}
		if f.Name() == entry {
			entryFn = f
		}
		if err := checkFunc(f); err != nil {
			return fmt.Errorf("@%s: %w", f.Name(), err)
		}
	}
	for _, g := range mod.Globals {
		if err := claim(g.Name()); err != nil {
			return err
		}
		if g.Linkage == enum.LinkagePrivate && !g.Immutable {
			return fmt.Errorf("private global @%s is mutable", g.Name())
		}
	}

	if entryFn == nil {
		return fmt.Errorf("entry function @%s not found", entry)
	}
	if len(entryFn.Params) != 0 {
		return fmt.Errorf("entry function takes %d parameters", len(entryFn.Params))
	}
	if !entryFn.Sig.RetType.Equal(types.I64) {
		return fmt.Errorf("entry function returns %s, want i64", entryFn.Sig.RetType)
	}
	return nil
}

func checkFunc(f *ir.Func) error {
	locals := make(map[string]struct{})
	local := func(name string) error {
		if name == "" {
			return nil
		}
		if _, dup := locals[name]; dup {
			return fmt.Errorf("local name %%%s is used twice", name)
		}
		locals[name] = struct{}{}
		return nil
	}
	for _, p := range f.Params {
		if err := local(p.Name()); err != nil {
			return err
		}
	}
	for _, b := range f.Blocks {
		if err := local(b.Name()); err != nil {
			return err
		}
		for _, inst := range b.Insts {
			if named, ok := inst.(value.Named); ok {
				if err := local(named.Name()); err != nil {
					return err
				}
			}
		}
		if b.Term == nil {
			return fmt.Errorf("block %%%s has no terminator", b.Name())
		}
		ret, ok := b.Term.(*ir.TermRet)
		if !ok {
			continue
		}
		want := f.Sig.RetType
		switch {
		case ret.X == nil && !want.Equal(types.Void):
			return fmt.Errorf("ret void in a function returning %s", want)
		case ret.X != nil && !ret.X.Type().Equal(want):
			return fmt.Errorf("ret %s in a function returning %s", ret.X.Type(), want)
		}
	}
	return nil
}
