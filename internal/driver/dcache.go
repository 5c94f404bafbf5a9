package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hue/internal/diag"
	"hue/internal/project"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты проходов по хешу входа на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is the on-disk form of diag.Diagnostic.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Notes    []string
}

// DiskPayload stores the outcome of one pass so an unchanged input is not
// lowered again.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Module string
	Path   string
	Key    project.Digest

	// IR is the printed module; empty when Broken.
	IR          string
	Diagnostics []CachedDiagnostic
	Broken      bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// все записи лежат в подкаталоге "passes"
	return filepath.Join(c.dir, "passes", key.Hex()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) && err == nil {
			err = removeErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	payload.Key = key
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. Entries written with another schema are reported as misses.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Key != key {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func cacheDiagnostics(bag *diag.Bag) []CachedDiagnostic {
	if bag == nil {
		return nil
	}
	out := make([]CachedDiagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Notes:    append([]string(nil), d.Notes...),
		})
	}
	return out
}

func restoreDiagnostics(items []CachedDiagnostic, bag *diag.Bag) {
	for _, c := range items {
		sev := diag.Severity(c.Severity)
		if sev > diag.SevError {
			sev = diag.SevError
		}
		bag.Add(diag.Diagnostic{
			Severity: sev,
			Code:     diag.Code(c.Code),
			Message:  c.Message,
			Notes:    c.Notes,
		})
	}
}
