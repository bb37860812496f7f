package interfaces

import (
	"context"

	"stock-predictor/internal/types"
)

// SentimentInferer turns a news bundle into a sentiment reading.
type SentimentInferer interface {
	InferSentiment(ctx context.Context, ticker string, bundle types.NewsBundle) (types.SentimentAssessment, error)
}

// SentimentCache stores assessments by content fingerprint.
type SentimentCache interface {
	Get(ctx context.Context, key string) (types.SentimentAssessment, bool, error)
	Put(ctx context.Context, key string, sa types.SentimentAssessment) error
	Clear(ctx context.Context) error
	Close() error
}
