package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hue/internal/ast"
	"hue/internal/diag"
	"hue/internal/project"
	"hue/internal/version"
)

func writeHast(t *testing.T, dir, name, module string, root *ast.Function) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := ast.Encode(f, module, root); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

func okRoot() *ast.Function {
	add := ast.Func(ast.Sig(ast.VariableList{ast.Let("a", ast.TypeInt), ast.Let("b", ast.TypeInt)}, ast.TypeInt),
		ast.Bin("+", ast.Sym("a"), ast.Sym("b")))
	return ast.Func(nil,
		ast.Assign(ast.Let("add", ast.TypeUnknown), add),
		ast.CallOf("add", ast.Int(1), ast.Int(2)),
	)
}

func brokenRoot() *ast.Function {
	return ast.Func(nil, ast.CallOf("undefined_fn", ast.Int(1)))
}

func TestLowerProducesIR(t *testing.T) {
	dir := t.TempDir()
	path := writeHast(t, dir, "hello.hast", "hello", okRoot())

	var mu sync.Mutex
	var phases []string
	res, err := Lower(context.Background(), Request{
		Path: path,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			defer mu.Unlock()
			if ev.Status == PhaseEnd {
				phases = append(phases, ev.Name)
			}
		},
		Timings: true,
	})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if res.Failed() || res.IR == nil {
		t.Fatalf("unexpected failure: %v", res.Bag.Errors())
	}
	if res.Module != "hello" {
		t.Fatalf("module name: got %q", res.Module)
	}
	if !strings.Contains(res.Text, "@main(") || !strings.Contains(res.Text, "hello$add") {
		t.Fatalf("unexpected IR:\n%s", res.Text)
	}
	if strings.Join(phases, ",") != "load,lower,print" {
		t.Fatalf("unexpected phases %v", phases)
	}
	if len(res.Bag.WithCode(diag.ObsTimings)) != 1 {
		t.Fatalf("expected a timings diagnostic")
	}
}

func TestLowerReportsInputProblems(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.hast")
	if err := os.WriteFile(garbage, []byte("not msgpack at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := Lower(context.Background(), Request{Path: garbage})
	if err != nil {
		t.Fatalf("input problems are diagnostics, not errors: %v", err)
	}
	if len(res.Bag.WithCode(diag.IODecodeError)) != 1 || res.Module != "garbage" {
		t.Fatalf("expected IO4002 for module garbage, got %v (%q)", res.Bag.Errors(), res.Module)
	}

	res, err = Lower(context.Background(), Request{Path: filepath.Join(dir, "missing.hast")})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Bag.WithCode(diag.IOLoadFileError)) != 1 {
		t.Fatalf("expected IO4001, got %v", res.Bag.Errors())
	}
}

func TestLowerUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	good := writeHast(t, dir, "good.hast", "good", okRoot())
	bad := writeHast(t, dir, "bad.hast", "bad", brokenRoot())

	for _, path := range []string{good, bad} {
		first, err := Lower(context.Background(), Request{Path: path, Cache: cache})
		if err != nil {
			t.Fatal(err)
		}
		second, err := Lower(context.Background(), Request{Path: path, Cache: cache})
		if err != nil {
			t.Fatal(err)
		}
		if first.Cached || !second.Cached {
			t.Fatalf("%s: expected miss then hit, got %v then %v", path, first.Cached, second.Cached)
		}
		if first.Text != second.Text {
			t.Fatalf("%s: cached IR differs", path)
		}
		if strings.Join(first.Bag.Errors(), "\n") != strings.Join(second.Bag.Errors(), "\n") {
			t.Fatalf("%s: cached diagnostics differ: %v vs %v", path, first.Bag.Errors(), second.Bag.Errors())
		}
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	again, err := Lower(context.Background(), Request{Path: good, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if again.Cached {
		t.Fatalf("cache must be empty after DropAll")
	}
}

func TestLowerFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeHast(t, dir, "b.hast", "b", brokenRoot())
	writeHast(t, dir, "a.hast", "a", okRoot())
	writeHast(t, dir, "c.hast", "c", okRoot())
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := ListInputs([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 inputs, got %v", files)
	}
	results, err := LowerFiles(context.Background(), files, FilesOptions{Jobs: 2})
	if err != nil {
		t.Fatalf("LowerFiles: %v", err)
	}
	var failed []string
	for i, res := range results {
		if res.Path != files[i] {
			t.Fatalf("result %d is for %s, want %s", i, res.Path, files[i])
		}
		if res.Failed() {
			failed = append(failed, res.Module)
		}
	}
	if strings.Join(failed, ",") != "b" {
		t.Fatalf("only b should fail, got %v", failed)
	}
}

func TestLowerFilesOneErrorPerBrokenInput(t *testing.T) {
	dir := t.TempDir()
	writeHast(t, dir, "a.hast", "a", brokenRoot())
	writeHast(t, dir, "b.hast", "b", okRoot())
	writeHast(t, dir, "c.hast", "c", ast.Func(nil, ast.Bin("%", ast.Int(1), ast.Int(2))))

	files, err := ListInputs([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	results, err := LowerFiles(context.Background(), files, FilesOptions{Jobs: 3})
	if err != nil {
		t.Fatalf("LowerFiles: %v", err)
	}
	want := map[string]diag.Code{"a": diag.GenUnknownSymbol, "b": diag.UnknownCode, "c": diag.GenUnsupportedOperator}
	total := 0
	for _, res := range results {
		code := want[res.Module]
		errs := res.Bag.Errors()
		total += len(errs)
		if code == diag.UnknownCode {
			if len(errs) != 0 || res.IR == nil {
				t.Fatalf("%s: expected a clean pass, got %v", res.Module, errs)
			}
			continue
		}
		if len(errs) != 1 || len(res.Bag.WithCode(code)) != 1 || res.IR != nil {
			t.Fatalf("%s: expected exactly one %s, got %v", res.Module, code.ID(), errs)
		}
	}
	if total != 2 {
		t.Fatalf("two broken inputs must give two errors, got %d", total)
	}
}

func TestCacheKeyTracksCompilerVersion(t *testing.T) {
	content := project.DigestOf([]byte("tree"))
	before := cacheKey(content, "m")
	if cacheKey(content, "m") != before {
		t.Fatalf("cache key must be deterministic")
	}
	if cacheKey(content, "other") == before {
		t.Fatalf("module name must be part of the key")
	}

	saved := version.Version
	t.Cleanup(func() { version.Version = saved })
	version.Version = saved + "-next"
	if cacheKey(content, "m") == before {
		t.Fatalf("a new compiler version must not reuse cached passes")
	}
}

func TestLowerFilesHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	path := writeHast(t, dir, "a.hast", "a", okRoot())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LowerFiles(ctx, []string{path}, FilesOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestLoadAST(t *testing.T) {
	dir := t.TempDir()
	path := writeHast(t, dir, "x.hast", "", okRoot())
	file, digest, err := LoadAST(path)
	if err != nil {
		t.Fatalf("LoadAST: %v", err)
	}
	if digest.IsZero() || file.Root == nil {
		t.Fatalf("expected digest and root")
	}
	if ModuleName(file, path) != "x" {
		t.Fatalf("unnamed module falls back to the file name, got %q", ModuleName(file, path))
	}
}
