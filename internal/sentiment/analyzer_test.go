package sentiment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/internal/types"
)

type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]types.SentimentAssessment
	err  error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string]types.SentimentAssessment{}}
}

func (m *mapCache) Get(_ context.Context, key string) (types.SentimentAssessment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return types.SentimentAssessment{}, false, m.err
	}
	sa, ok := m.data[key]
	return sa, ok, nil
}

func (m *mapCache) Put(_ context.Context, key string, sa types.SentimentAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = sa
	return nil
}

func (m *mapCache) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string]types.SentimentAssessment{}
	return nil
}

func (m *mapCache) Close() error { return nil }

var sampleBundle = types.NewsBundle{
	Ticker: "AAPL",
	FinViz: []types.NewsItem{{Headline: "Apple beats estimates"}},
	Yahoo:  []types.NewsItem{{Headline: "iPhone demand rises", Summary: "Sales up 10%"}},
}

const positiveReply = `{"sentiment_score": 78, "sentiment_label": "POSITIVE", "confidence": 82, "reasoning": "Beat and raise."}`

func TestAnalyzerInferSentiment(t *testing.T) {
	fc := &fakeCompleter{reply: positiveReply}
	sa, err := NewAnalyzer(fc).InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.NoError(t, err)

	assert.Equal(t, 78.0, sa.Score)
	assert.Equal(t, types.SentimentPositive, sa.Label)
	assert.Equal(t, 82.0, sa.Confidence)
	assert.Equal(t, "fake", sa.Provider)
	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "HEADLINE: Apple beats estimates\n\nHEADLINE: iPhone demand rises\n\nSUMMARY: Sales up 10%")
}

func TestAnalyzerEmptyNewsSkipsModel(t *testing.T) {
	fc := &fakeCompleter{reply: positiveReply}
	sa, err := NewAnalyzer(fc).InferSentiment(context.Background(), "AAPL", types.NewsBundle{Ticker: "AAPL"})
	require.NoError(t, err)

	assert.Equal(t, 0, fc.calls)
	assert.Equal(t, 50.0, sa.Score)
	assert.Equal(t, types.SentimentNeutral, sa.Label)
	assert.Equal(t, 0.0, sa.Confidence)
	assert.Equal(t, "No news data available for analysis", sa.Reasoning)
}

func TestAnalyzerModelErrorReturnsNeutral(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("rate limited")}
	sa, err := NewAnalyzer(fc).InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInference)

	assert.Equal(t, 50.0, sa.Score)
	assert.Equal(t, types.SentimentNeutral, sa.Label)
	assert.Equal(t, 0.0, sa.Confidence)
	assert.Equal(t, "Error in sentiment analysis: rate limited", sa.Reasoning)
}

func TestSkipped(t *testing.T) {
	sa, err := Skipped{}.InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.NoError(t, err)
	assert.Equal(t, "Sentiment analysis was skipped", sa.Reasoning)
	assert.Equal(t, 50.0, sa.Score)
	assert.Equal(t, 0.0, sa.Confidence)

	sa, err = Skipped{Reason: "disabled"}.InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.NoError(t, err)
	assert.Equal(t, "disabled", sa.Reasoning)
}

func TestCachedServesRepeatsFromCache(t *testing.T) {
	fc := &fakeCompleter{reply: positiveReply}
	cache := newMapCache()
	inf := NewCached(NewAnalyzer(fc), cache)

	first, err := inf.InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := inf.InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Reasoning, second.Reasoning)
	assert.Equal(t, 1, fc.calls)
}

func TestCachedDoesNotStoreFailuresOrEmptyNews(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("down")}
	cache := newMapCache()
	inf := NewCached(NewAnalyzer(fc), cache)

	_, err := inf.InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.Error(t, err)
	_, err = inf.InferSentiment(context.Background(), "AAPL", types.NewsBundle{})
	require.NoError(t, err)

	assert.Empty(t, cache.data)
	assert.Equal(t, 1, fc.calls)
}

func TestCachedSurvivesCacheErrors(t *testing.T) {
	fc := &fakeCompleter{reply: positiveReply}
	cache := newMapCache()
	cache.err = errors.New("disk full")
	inf := NewCached(NewAnalyzer(fc), cache)

	sa, err := inf.InferSentiment(context.Background(), "AAPL", sampleBundle)
	require.NoError(t, err)
	assert.Equal(t, 78.0, sa.Score)
	assert.False(t, sa.Cached)
}
