package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/types"
)

// File keeps one JSON document per fingerprint in a directory.
type File struct {
	dir string
	ttl time.Duration
	mu  sync.RWMutex
	now func() time.Time
}

// fileEntry is the on-disk layout of a cached assessment.
type fileEntry struct {
	Key        string                    `json:"key"`
	Assessment types.SentimentAssessment `json:"assessment"`
	Timestamp  time.Time                 `json:"timestamp"`
}

var _ interfaces.SentimentCache = (*File)(nil)

// NewFile creates the cache directory if needed. A zero ttl keeps entries
// until Clear.
func NewFile(dir string, ttl time.Duration) (*File, error) {
	if dir == "" {
		return nil, errors.New("file cache: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file cache: %w", err)
	}
	return &File{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *File) Get(_ context.Context, key string) (types.SentimentAssessment, bool, error) {
	c.mu.RLock()
	data, err := os.ReadFile(c.path(key))
	c.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return types.SentimentAssessment{}, false, nil
	}
	if err != nil {
		return types.SentimentAssessment{}, false, fmt.Errorf("file cache read: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entries are treated as misses and overwritten on the next Put
		return types.SentimentAssessment{}, false, nil
	}
	if c.expired(entry.Timestamp) {
		c.mu.Lock()
		os.Remove(c.path(key))
		c.mu.Unlock()
		return types.SentimentAssessment{}, false, nil
	}
	return entry.Assessment, true, nil
}

func (c *File) Put(_ context.Context, key string, sa types.SentimentAssessment) error {
	sa.Cached = false
	data, err := json.MarshalIndent(fileEntry{Key: key, Assessment: sa, Timestamp: c.now()}, "", "  ")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file cache write: %w", err)
	}
	return os.Rename(tmp, c.path(key))
}

// Clear removes every cached entry but keeps the directory.
func (c *File) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("file cache clear: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file cache clear: %w", err)
		}
	}
	return nil
}

func (c *File) Close() error { return nil }

func (c *File) expired(ts time.Time) bool {
	return c.ttl > 0 && c.now().Sub(ts) > c.ttl
}

func (c *File) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", md5.Sum([]byte(key))))
}
