package driver

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hue/internal/ast"
	"hue/internal/project"
)

// ASTExt is the extension of msgpack-encoded syntax trees.
const ASTExt = ".hast"

// ListInputs expands directories to the sorted *.hast files below them.
// Plain file arguments are kept as given, whatever their extension.
func ListInputs(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ASTExt) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", p, err)
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// LoadAST reads and decodes one .hast file. The digest covers the raw bytes.
func LoadAST(path string) (*ast.File, project.Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, project.Digest{}, fmt.Errorf("read %s: %w", path, err)
	}
	file, err := ast.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, project.Digest{}, fmt.Errorf("%s: %w", path, err)
	}
	return file, project.DigestOf(data), nil
}

// ModuleName derives a module name from the file name when the tree has none.
func ModuleName(file *ast.File, path string) string {
	if file != nil && file.Module != "" {
		return file.Module
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
