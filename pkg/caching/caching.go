package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache stores response bodies keyed by request.
type Cache interface {
	Get(method, url string) ([]byte, bool)
	Set(method, url string, data []byte) error
}

// FileCache is a file-based Cache with a TTL. Entries are files named by the
// hash of the request line.
type FileCache struct {
	path string
	ttl  time.Duration
}

// NewFileCache creates a FileCache rooted at path, creating the directory if
// it doesn't exist. A zero ttl never expires entries.
func NewFileCache(path string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileCache{
		path: path,
		ttl:  ttl,
	}, nil
}

// Key returns the cache key of a request: the SHA256 of "METHOD url".
func Key(method, url string) string {
	hash := sha256.Sum256([]byte(method + " " + url))
	return fmt.Sprintf("%x", hash)
}

// Get returns the cached body and true if present and not expired.
func (c *FileCache) Get(method, url string) ([]byte, bool) {
	filePath := filepath.Join(c.path, Key(method, url))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data for the request. The file is written to a temporary name
// first so concurrent readers never see a partial body.
func (c *FileCache) Set(method, url string, data []byte) error {
	filePath := filepath.Join(c.path, Key(method, url))
	tmp, err := os.CreateTemp(c.path, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// MemoryCache is an in-process Cache without expiry, used when no cache
// directory is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(method, url string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[Key(method, url)]
	return data, ok
}

func (c *MemoryCache) Set(method, url string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(method, url)] = append([]byte(nil), data...)
	return nil
}
