// Package resultcache memoizes per-source search results so repeated runs
// replay earlier queries without calling the source again.
//
// Entries are keyed by source id plus normalized query. The cache is stored
// as a single human-readable JSON file; an empty path disables it and turns
// every operation into a no-op.
package resultcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"shelfcheck/internal/logging"
	"shelfcheck/internal/sources"
	"shelfcheck/internal/textmatch"
)

// Entry is one cached search result.
type Entry struct {
	SourceID string         `json:"source_id"`
	Query    string         `json:"query"`
	Result   sources.Result `json:"result"`
	CachedAt time.Time      `json:"cached_at"`
}

// Cache provides thread-safe access to the search result cache.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a cache instance backed by the given file path. The file is
// created lazily on first Store.
func New(path string, logger *slog.Logger) *Cache {
	c := &Cache{
		path:    path,
		logger:  logging.NewComponentLogger(logger, "resultcache"),
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		c.logger.Warn("failed to load result cache",
			logging.Error(err),
			logging.String("path", path))
	}
	return c
}

// Key produces the cache key for a source id and raw query string. Queries
// are normalized so cosmetic differences share one entry.
func Key(sourceID, query string) string {
	return sourceID + "|" + textmatch.NormalizeTitle(query)
}

// Lookup returns the cached result for a source and query if present.
func (c *Cache) Lookup(sourceID, query string) (sources.Result, bool) {
	if c.path == "" {
		return sources.Result{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[Key(sourceID, query)]
	if !found {
		return sources.Result{}, false
	}
	return entry.Result, true
}

// Store records a search result and persists the cache. Each key is expected
// to be written at most once per run; a second write overwrites.
func (c *Cache) Store(sourceID, query string, result sources.Result) error {
	if strings.TrimSpace(sourceID) == "" {
		return errors.New("source id cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(sourceID, query)] = Entry{
		SourceID: sourceID,
		Query:    query,
		Result:   result,
		CachedAt: time.Now().UTC(),
	}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached source result",
		logging.String(logging.FieldSource, sourceID),
		logging.String(logging.FieldQuery, query),
		logging.Int("candidates", len(result.Candidates)))
	return nil
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.SourceID) == "" {
			continue
		}
		c.entries[Key(entry.SourceID, entry.Query)] = entry
	}
	return nil
}

func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SourceID != entries[j].SourceID {
			return entries[i].SourceID < entries[j].SourceID
		}
		return entries[i].Query < entries[j].Query
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
