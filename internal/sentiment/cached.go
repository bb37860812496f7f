package sentiment

import (
	"context"
	"strings"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/types"
)

// Cached serves repeated news sets from a cache. Only successful model
// readings are stored; empty news and failed calls always go to the inner
// inferer.
type Cached struct {
	inner interfaces.SentimentInferer
	cache interfaces.SentimentCache
}

var _ interfaces.SentimentInferer = (*Cached)(nil)

func NewCached(inner interfaces.SentimentInferer, cache interfaces.SentimentCache) *Cached {
	return &Cached{inner: inner, cache: cache}
}

func (c *Cached) InferSentiment(ctx context.Context, ticker string, bundle types.NewsBundle) (types.SentimentAssessment, error) {
	if strings.TrimSpace(bundle.Text()) == "" {
		return c.inner.InferSentiment(ctx, ticker, bundle)
	}

	key := Fingerprint(ticker, bundle)
	sa, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn(ctx, "Sentiment cache read failed", "ticker", ticker, "error", err)
	}
	if ok {
		logger.Info(ctx, "Using cached sentiment analysis", "ticker", ticker, "key", key)
		sa.Cached = true
		return sa, nil
	}

	sa, err = c.inner.InferSentiment(ctx, ticker, bundle)
	if err != nil {
		return sa, err
	}
	if err := c.cache.Put(ctx, key, sa); err != nil {
		logger.Warn(ctx, "Sentiment cache write failed", "ticker", ticker, "error", err)
	}
	return sa, nil
}
