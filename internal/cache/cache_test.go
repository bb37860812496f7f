package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/types"
)

var sample = types.SentimentAssessment{
	Score:      72.5,
	Label:      types.SentimentPositive,
	Confidence: 80,
	Reasoning:  "Upbeat coverage.",
	Provider:   "claude",
}

func backends(t *testing.T) map[string]interfaces.SentimentCache {
	t.Helper()

	file, err := NewFile(filepath.Join(t.TempDir(), "sentiment"), 0)
	require.NoError(t, err)

	bdb, err := openBadger(badger.DefaultOptions("").WithInMemory(true), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })

	return map[string]interfaces.SentimentCache{
		"file":   file,
		"badger": bdb,
		"memory": NewMemory(0),
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := c.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			in := sample
			in.Cached = true
			require.NoError(t, c.Put(ctx, "k1", in))

			got, ok, err := c.Get(ctx, "k1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, sample, got, "stored entries must not carry the cached flag")

			require.NoError(t, c.Put(ctx, "k2", sample))
			require.NoError(t, c.Clear(ctx))

			for _, k := range []string{"k1", "k2"} {
				_, ok, err = c.Get(ctx, k)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	c, err := NewFile(t.TempDir(), time.Hour)
	require.NoError(t, err)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "k", sample))

	now = now.Add(59 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(statErr), "expired entry should be removed")
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	c, err := NewFile(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.path("k"), []byte("{not json"), 0o644))

	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFile(dir, 0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("keep"), 0o644))
	require.NoError(t, c.Put(context.Background(), "k", sample))

	require.NoError(t, c.Clear(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "README", entries[0].Name())
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Put(ctx, "k", sample))
	now = now.Add(2 * time.Minute)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, m.data)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := OpenBadger(dir, 0)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "k", sample))
	require.NoError(t, b.Close())

	b, err = OpenBadger(dir, 0)
	require.NoError(t, err)
	defer b.Close()

	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample, got)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	c, err := New("file", filepath.Join(dir, "f"), 0)
	require.NoError(t, err)
	assert.IsType(t, &File{}, c)

	c, err = New("MEMORY", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New("NONE", "", 0)
	require.NoError(t, err)
	require.NoError(t, c.Put(context.Background(), "k", sample))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)

	c, err = New("BADGER", filepath.Join(dir, "b"), 0)
	require.NoError(t, err)
	assert.IsType(t, &Badger{}, c)
	require.NoError(t, c.Close())

	_, err = New("REDIS", dir, 0)
	assert.Error(t, err)

	_, err = New("FILE", "", 0)
	assert.Error(t, err)
}
