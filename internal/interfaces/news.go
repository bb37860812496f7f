package interfaces

import (
	"context"

	"stock-predictor/internal/types"
)

type NewsSource interface {
	FetchNewsItems(ctx context.Context, ticker string) (types.NewsBundle, error)
}
