package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[build]
entry = ["src", "/abs/other.hast"]
jobs = 4
`)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Build.Jobs != 4 {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if m.Config.Build.Emit != "ll" || m.Config.Diagnostics.Color != "auto" || m.Config.Diagnostics.Max != 100 {
		t.Fatalf("defaults were not applied: %+v", m.Config)
	}
	entries := m.EntryPaths()
	if entries[0] != filepath.Join(root, "src") || entries[1] != filepath.FromSlash("/abs/other.hast") {
		t.Fatalf("unexpected entries %v", entries)
	}
	if m.OutputDir() != filepath.Join(root, "build") {
		t.Fatalf("unexpected output dir %q", m.OutputDir())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), ManifestName)); err == nil {
		t.Fatalf("expected an error for a missing manifest")
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", "[package]\n", "missing [package].name"},
		{"bad emit", "[package]\nname = \"x\"\n[build]\nemit = \"obj\"\n", "[build].emit"},
		{"bad color", "[package]\nname = \"x\"\n[diagnostics]\ncolor = \"sometimes\"\n", "[diagnostics].color"},
		{"negative jobs", "[package]\nname = \"x\"\n[build]\njobs = -1\n", "[build].jobs"},
		{"unknown key", "[package]\nname = \"x\"\nversion = \"1\"\n", "unknown key package.version"},
		{"syntax", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDigestCombine(t *testing.T) {
	a := DigestOf([]byte("a"))
	b := DigestOf([]byte("b"))
	if a.IsZero() || a == b {
		t.Fatalf("distinct inputs must hash differently")
	}
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if len(a.Hex()) != 64 {
		t.Fatalf("hex digest has wrong length: %q", a.Hex())
	}
}
