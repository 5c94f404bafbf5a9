package buildpipeline

import (
	"path/filepath"
	"strings"
)

// DisplayNames maps each input path to the name shown in progress events:
// relative to baseDir when the file lives below it, slash-separated.
func DisplayNames(files []string, baseDir string) map[string]string {
	out := make(map[string]string, len(files))
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	for _, file := range files {
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		out[file] = filepath.ToSlash(path)
	}
	return out
}
