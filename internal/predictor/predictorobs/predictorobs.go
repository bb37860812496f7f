package predictorobs

import (
	"context"
	"time"

	"stock-predictor/internal/logger"
	"stock-predictor/internal/predictor"
	"stock-predictor/internal/trace"
)

type observablePredictor struct {
	p predictor.Predictor
}

var _ predictor.Predictor = (*observablePredictor)(nil)

func Wrap(p predictor.Predictor) predictor.Predictor {
	return &observablePredictor{p: p}
}

func (op *observablePredictor) Predict(ctx context.Context, ticker string, opts predictor.Options) (*predictor.Result, error) {
	ctx, span := trace.StartSpan(ctx, "predictor.Predict")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting analysis",
		"ticker", ticker,
		"no_sentiment", opts.NoSentiment,
	)

	res, err := op.p.Predict(ctx, ticker, opts)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analysis failed", err,
			"ticker", ticker,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Analysis completed",
		"ticker", res.Ticker,
		"recommendation", res.Overall.Recommendation,
		"score", res.Overall.Score,
		"confidence", res.Overall.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return res, nil
}
