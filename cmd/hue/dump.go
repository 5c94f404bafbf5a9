package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hue/internal/ast"
	llvmbackend "hue/internal/backend/llvm"
	"hue/internal/diagfmt"
	"hue/internal/driver"
	"hue/internal/trace"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.hast>",
	Short: "Print the syntax tree of one input, and optionally its IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("ir", false, "also lower the tree and print the IR module")
	dumpCmd.Flags().String("entry", llvmbackend.EntryName, "name of the entry function")
}

func runDump(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	path := args[0]
	withIR, err := cmd.Flags().GetBool("ir")
	if err != nil {
		return fmt.Errorf("failed to get ir flag: %w", err)
	}
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return fmt.Errorf("failed to get entry flag: %w", err)
	}

	file, _, err := driver.LoadAST(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	module := driver.ModuleName(file, path)
	fmt.Fprintf(out, "module %s\n", module)
	if err := ast.Dump(out, file.Root); err != nil {
		return err
	}
	if !withIR {
		return nil
	}

	ctx := cmd.Context()
	mod, bag := llvmbackend.GenModule(module, file.Root, llvmbackend.Options{
		Tracer:     trace.FromContext(ctx),
		ParentSpan: trace.ParentSpan(ctx),
		EntryName:  entry,
	})
	if bag.Len() > 0 {
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), bag, diagfmt.PrettyOpts{Color: current.color, ShowNotes: true, Origin: path}); err != nil {
			return err
		}
	}
	if mod == nil {
		return errFailed
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, mod.String())
	return nil
}
