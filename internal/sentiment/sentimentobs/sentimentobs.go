package sentimentobs

import (
	"context"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/trace"
	"stock-predictor/internal/types"
)

// observableInferer wraps a SentimentInferer with observability (logging & tracing)
type observableInferer struct {
	inferer interfaces.SentimentInferer
}

// Compile-time interface check
var _ interfaces.SentimentInferer = (*observableInferer)(nil)

// Wrap wraps a sentiment inferer with observability middleware
func Wrap(inferer interfaces.SentimentInferer) interfaces.SentimentInferer {
	return &observableInferer{inferer: inferer}
}

// InferSentiment infers sentiment with observability. A failed inference
// still carries the neutral fallback, so it is passed through unchanged.
func (o *observableInferer) InferSentiment(ctx context.Context, ticker string, bundle types.NewsBundle) (types.SentimentAssessment, error) {
	ctx, span := trace.StartSpan(ctx, "sentiment.InferSentiment")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting sentiment",
		"ticker", ticker,
		"finviz_items", len(bundle.FinViz),
		"yahoo_items", len(bundle.Yahoo),
	)

	sa, err := o.inferer.InferSentiment(ctx, ticker, bundle)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Sentiment inference failed, using neutral reading", err, "ticker", ticker)
		return sa, err
	}

	logger.InfoSkip(ctx, 1, "Sentiment analysis completed",
		"ticker", ticker,
		"label", sa.Label,
		"score", sa.Score,
		"confidence", sa.Confidence,
		"provider", sa.Provider,
		"cached", sa.Cached,
	)
	return sa, nil
}
