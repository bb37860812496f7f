package interfaces

import (
	"context"

	"stock-predictor/internal/types"
)

type MarketData interface {
	FetchHistory(ctx context.Context, ticker, period string) ([]types.Bar, error)
	FetchFundamentals(ctx context.Context, ticker string) (types.Fundamentals, error)
}
