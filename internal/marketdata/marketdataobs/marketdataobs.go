package marketdataobs

import (
	"context"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/trace"
	"stock-predictor/internal/types"
)

// observableMarketData wraps a MarketData provider with logging & tracing
type observableMarketData struct {
	md       interfaces.MarketData
	provider string
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market data provider with observability middleware
func Wrap(md interfaces.MarketData, provider string) interfaces.MarketData {
	return &observableMarketData{
		md:       md,
		provider: provider,
	}
}

func (o *observableMarketData) FetchHistory(ctx context.Context, ticker, period string) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.FetchHistory")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching price history", "provider", o.provider, "ticker", ticker, "period", period)

	bars, err := o.md.FetchHistory(ctx, ticker, period)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch price history", err, "provider", o.provider, "ticker", ticker)
		return nil, err
	}

	fields := []any{"provider", o.provider, "ticker", ticker, "bars", len(bars)}
	if len(bars) > 0 {
		fields = append(fields, "last_close", bars[len(bars)-1].Close)
	}
	logger.InfoSkip(ctx, 1, "Price history fetched", fields...)
	return bars, nil
}

func (o *observableMarketData) FetchFundamentals(ctx context.Context, ticker string) (types.Fundamentals, error) {
	ctx, span := trace.StartSpan(ctx, "marketdata.FetchFundamentals")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching fundamentals", "provider", o.provider, "ticker", ticker)

	f, err := o.md.FetchFundamentals(ctx, ticker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch fundamentals", err, "provider", o.provider, "ticker", ticker)
		return types.Fundamentals{}, err
	}

	logger.InfoSkip(ctx, 1, "Fundamentals fetched",
		"provider", o.provider,
		"ticker", ticker,
		"has_pe", f.TrailingPE != nil,
		"has_margin", f.ProfitMargin != nil,
		"has_roe", f.ReturnOnEquity != nil,
	)
	return f, nil
}
