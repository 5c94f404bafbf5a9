package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the project file looked up from the working directory.
const ManifestName = "hue.toml"

// ErrNoManifest is returned when no hue.toml exists up to the filesystem root.
var ErrNoManifest = errors.New("no hue.toml found")

// Manifest is a parsed hue.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package     PackageConfig     `toml:"package"`
	Build       BuildConfig       `toml:"build"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Trace       TraceConfig       `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	// Entry lists .hast files or directories, relative to the manifest.
	Entry  []string `toml:"entry"`
	Output string   `toml:"output"`
	Jobs   int      `toml:"jobs"`
	// Emit is "ll" (textual IR) or "none" (check only).
	Emit string `toml:"emit"`
}

type DiagnosticsConfig struct {
	Max   int    `toml:"max"`
	Color string `toml:"color"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// Defaults are applied to keys the manifest leaves out.
func Defaults() Config {
	return Config{
		Build: BuildConfig{
			Entry:  []string{"."},
			Output: "build",
			Emit:   "ll",
		},
		Diagnostics: DiagnosticsConfig{Max: 100, Color: "auto"},
		Trace:       TraceConfig{Level: "off", Output: "-"},
	}
}

// FindManifest walks up from startDir to locate hue.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest manifest. It returns ErrNoManifest
// when there is none.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	return Load(path)
}

// Load parses and validates one manifest file.
func Load(path string) (*Manifest, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func (c *Config) validate() error {
	switch c.Build.Emit {
	case "ll", "none":
	default:
		return fmt.Errorf("[build].emit must be \"ll\" or \"none\", got %q", c.Build.Emit)
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative")
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must not be negative")
	}
	switch c.Diagnostics.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[diagnostics].color must be auto, on or off, got %q", c.Diagnostics.Color)
	}
	if len(c.Build.Entry) == 0 {
		return fmt.Errorf("[build].entry must name at least one path")
	}
	return nil
}

// EntryPaths resolves [build].entry against the manifest directory.
func (m *Manifest) EntryPaths() []string {
	out := make([]string, 0, len(m.Config.Build.Entry))
	for _, e := range m.Config.Build.Entry {
		out = append(out, m.resolve(e))
	}
	return out
}

// OutputDir resolves [build].output against the manifest directory.
func (m *Manifest) OutputDir() string {
	return m.resolve(m.Config.Build.Output)
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}
