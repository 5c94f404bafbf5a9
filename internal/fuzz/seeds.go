package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"hue/internal/ast"
	"hue/internal/driver"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addTreeSeeds(f)
	f.Add([]byte{})
	f.Add([]byte("not msgpack"))
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != driver.ASTExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addTreeSeeds encodes a few representative trees so the fuzzer starts from
// well-formed inputs.
func addTreeSeeds(f *testing.F) {
	intSig := ast.Sig(ast.VariableList{ast.Let("n", ast.TypeInt)}, ast.TypeInt)
	trees := []*ast.Function{
		ast.Func(nil, ast.Int(1)),
		ast.Func(nil,
			ast.Assign(ast.Let("add", ast.TypeUnknown), ast.Func(
				ast.Sig(ast.VariableList{ast.Let("a", ast.TypeInt), ast.Let("b", ast.TypeInt)}, ast.TypeInt),
				ast.Bin("+", ast.Sym("a"), ast.Sym("b")),
			)),
			ast.CallOf("add", ast.Int(1), ast.Int(2)),
		),
		ast.Func(nil,
			ast.Extern("abs", intSig),
			ast.Assign(ast.Mut("x", ast.TypeFloat), ast.Float(1.5)),
			ast.Assign(ast.Mut("x", ast.TypeFloat), ast.Bin("*", ast.Sym("x"), ast.Float(2))),
			ast.Text("héllo"),
			ast.CallOf("abs", ast.Int(-3)),
		),
		ast.Func(nil, ast.CallOf("missing")),
	}
	for _, root := range trees {
		var buf bytes.Buffer
		if err := ast.Encode(&buf, "seed", root); err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(buf.Bytes())
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
