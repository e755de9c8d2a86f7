package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shivtchandra/food-analysis/models"
)

// FDCCache is the persistent external-lookup cache: a JSON object on disk
// mapping normalized query → cache entry. The whole file is read at first
// use and rewritten on every new entry. Entries are write-once per key, so
// two workers racing on the same query keep whichever entry landed first.
type FDCCache struct {
	path string

	mu      sync.Mutex
	entries map[string]models.CacheEntry
	loaded  bool
}

// NewFDCCache creates a cache backed by the given file path. The file is not
// touched until the first Get or Put.
func NewFDCCache(path string) *FDCCache {
	return &FDCCache{path: path}
}

// Get returns the stored entry for a normalized query, if any.
func (c *FDCCache) Get(query string) (models.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	e, ok := c.entries[query]
	return e, ok
}

// Put stores an entry for a normalized query and persists the whole cache.
// A key that already has an entry is left untouched.
func (c *FDCCache) Put(query string, entry models.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	if _, exists := c.entries[query]; exists {
		return nil
	}
	c.entries[query] = entry
	return c.persistLocked()
}

// Len reports how many queries are cached.
func (c *FDCCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	return len(c.entries)
}

func (c *FDCCache) loadLocked() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.entries = map[string]models.CacheEntry{}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var stored map[string]models.CacheEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		// A corrupt cache file only costs repeat lookups.
		return
	}
	c.entries = stored
}

func (c *FDCCache) persistLocked() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling FDC cache: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "fdc_cache-*.json")
	if err != nil {
		return fmt.Errorf("creating FDC cache temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing FDC cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing FDC cache temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing FDC cache file: %w", err)
	}
	return nil
}
