package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/internal/cache"
	"stock-predictor/internal/scoring"
	"stock-predictor/internal/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "stock-predictor version")
}

func TestRequiresTicker(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("cache:\n  backend: file\n  dir: %s\n", cacheDir)), 0o644))
	t.Setenv("PREDICT_CACHE_BACKEND", "")
	t.Setenv("PREDICT_CACHE_DIR", "")

	c, err := cache.NewFile(cacheDir, 0)
	require.NoError(t, err)
	require.NoError(t, c.Put(context.Background(), "k", types.NeutralSentiment("x")))

	out, err := execute(t, "cache", "clear", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Sentiment cache cleared (FILE")

	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"interrupted", fmt.Errorf("fetch: %w", context.Canceled), "Analysis interrupted by user"},
		{"data unavailable", fmt.Errorf("%w: price history for ZZZZ", scoring.ErrDataUnavailable), "❌ Error: data unavailable"},
		{"unexpected", errors.New("dial tcp: timeout"), "Please check your internet connection and API credentials."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
