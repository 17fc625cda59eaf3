package library

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/strum/internal/config"
	"github.com/tessro/strum/internal/errors"
)

// DefaultCacheFileName is the name of the scan cache file.
const DefaultCacheFileName = "library.json"

// cacheFile is the on-disk cache layout.
type cacheFile struct {
	Fingerprint uint64    `json:"fingerprint"`
	ScannedAt   time.Time `json:"scanned_at"`
	Result      Result    `json:"result"`
}

// Cache persists scan results between runs so startup does not walk
// the library every time.
type Cache struct {
	path string
}

// NewCache creates a cache at the given path. If path is empty, the
// default cache location is used.
func NewCache(path string) (*Cache, error) {
	if path == "" {
		defaultPath, err := defaultCachePath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine cache path: %w", err)
		}
		path = defaultPath
	}
	return &Cache{path: path}, nil
}

// defaultCachePath returns the default cache file location,
// $XDG_CACHE_HOME/strum/library.json or ~/.cache/strum/library.json.
func defaultCachePath() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "strum", DefaultCacheFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "strum", DefaultCacheFileName), nil
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Exists reports whether a cache file is present.
func (c *Cache) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

// Save writes a scan result to the cache, fingerprinted against the
// library settings that produced it.
func (c *Cache) Save(cfg config.LibraryConfig, res Result) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	entry := cacheFile{
		Fingerprint: fingerprint(cfg),
		ScannedAt:   time.Now(),
		Result:      res,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write library cache: %w", err)
	}
	return nil
}

// Load returns the cached result when it matches the current library
// settings and none of the roots changed since the scan. A missing,
// mismatched, or stale cache returns nil without error.
func (c *Cache) Load(cfg config.LibraryConfig) (*Result, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read library cache: %w", err)
	}

	var entry cacheFile
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse library cache: %w", err)
	}
	if entry.Fingerprint != fingerprint(cfg) {
		return nil, nil
	}
	if stale(cfg, entry.ScannedAt) {
		return nil, nil
	}
	return &entry.Result, nil
}

// Delete removes the cache file.
func (c *Cache) Delete() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete library cache: %w", err)
	}
	return nil
}

// Stats describes the cache file for the CLI.
type Stats struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Fingerprint uint64    `json:"fingerprint"`
	ScannedAt   time.Time `json:"scanned_at"`
	Candidates  int       `json:"candidates"`
	Files       int       `json:"files"`
	Bytes       int64     `json:"bytes"`
}

// Stats reads the cache file and summarizes it. A missing cache
// returns ErrNoLibrary.
func (c *Cache) Stats() (*Stats, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no library cache at %s", errors.ErrNoLibrary, c.path)
		}
		return nil, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read library cache: %w", err)
	}
	var entry cacheFile
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse library cache: %w", err)
	}
	return &Stats{
		Path:        c.path,
		Size:        info.Size(),
		Fingerprint: entry.Fingerprint,
		ScannedAt:   entry.ScannedAt,
		Candidates:  len(entry.Result.Candidates),
		Files:       entry.Result.Files,
		Bytes:       entry.Result.Bytes,
	}, nil
}

// fingerprint hashes the settings that shape a scan. A changed root or
// ignore list invalidates the cache.
func fingerprint(cfg config.LibraryConfig) uint64 {
	h, err := hashstructure.Hash(struct {
		Paths  []string
		Ignore []string
	}{cfg.Paths, cfg.Ignore}, hashstructure.FormatV2, nil)
	if err != nil {
		return 0
	}
	return h
}

// stale reports whether any library root was modified after the scan.
// Only the roots themselves are checked; a deep comparison would cost
// as much as the scan it is meant to avoid.
func stale(cfg config.LibraryConfig, scannedAt time.Time) bool {
	for _, raw := range cfg.Paths {
		root, err := expandRoot(raw)
		if err != nil {
			return true
		}
		info, err := os.Stat(root)
		if err != nil {
			return true
		}
		if info.ModTime().After(scannedAt) {
			return true
		}
	}
	return false
}

// Load runs a scan, preferring the cache when enabled and fresh. Scan
// problems that only skip entries are logged, not fatal.
func Load(cfg config.LibraryConfig, cache *Cache) (Result, error) {
	if cache != nil && cfg.Cache {
		res, err := cache.Load(cfg)
		if err != nil {
			slog.Warn("ignoring unreadable library cache", "error", err)
		} else if res != nil {
			slog.Debug("using cached library scan",
				"candidates", len(res.Candidates))
			return *res, nil
		}
	}

	partial, err := Scan(cfg)
	if err != nil {
		return Result{}, err
	}
	if partial.HasErrors() {
		slog.Warn("library scan skipped entries",
			"errors", len(partial.Errors),
			"detail", partial.ErrorSummary())
	}

	if cache != nil && cfg.Cache {
		if err := cache.Save(cfg, partial.Data); err != nil {
			slog.Warn("failed to save library cache", "error", err)
		}
	}
	return partial.Data, nil
}
