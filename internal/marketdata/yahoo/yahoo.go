package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"stock-predictor/internal/api"
	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/marketdata"
	"stock-predictor/internal/types"
)

const DefaultQuoteBaseURL = "https://query2.finance.yahoo.com"

type Params struct {
	QuoteBaseURL string
	Timeout      time.Duration
}

// Yahoo serves daily history and fundamentals from Yahoo Finance. History and
// trailing P/E come from finance-go; margins and ROE come from the
// quoteSummary endpoint.
type Yahoo struct {
	quotes  *api.Client
	history func(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error)
	equity  func(symbol string) (*finance.Equity, error)
	now     func() time.Time
}

var _ interfaces.MarketData = (*Yahoo)(nil)

func New(p Params) *Yahoo {
	base := p.QuoteBaseURL
	if base == "" {
		base = DefaultQuoteBaseURL
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Yahoo{
		quotes: api.NewClient(
			api.WithBaseURL(base),
			api.WithTimeout(timeout),
			api.WithHeaders(api.YahooFinanceHeaders()),
			api.WithRetry(api.DefaultRetryConfig()),
			api.WithLogging(true),
		),
		history: chartHistory,
		equity:  equity.Get,
		now:     time.Now,
	}
}

func (y *Yahoo) FetchHistory(ctx context.Context, ticker, period string) ([]types.Bar, error) {
	end := y.now()
	start, err := marketdata.PeriodStart(period, end)
	if err != nil {
		return nil, err
	}
	symbol := strings.ToUpper(ticker)
	bars, err := y.history(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("yahoo history %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo history %s (%s): %w", symbol, period, marketdata.ErrNoData)
	}
	return bars, nil
}

func chartHistory(ctx context.Context, symbol string, start, end time.Time) ([]types.Bar, error) {
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []types.Bar
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		if b == nil {
			continue
		}
		bars = append(bars, types.Bar{
			Date:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				ProfitMargins  rawValue `json:"profitMargins"`
				ReturnOnEquity rawValue `json:"returnOnEquity"`
			} `json:"financialData"`
			SummaryDetail struct {
				TrailingPE rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals returns whatever of P/E, margin and ROE the two sources
// report. It fails only when neither source answers.
func (y *Yahoo) FetchFundamentals(ctx context.Context, ticker string) (types.Fundamentals, error) {
	symbol := strings.ToUpper(ticker)
	var f types.Fundamentals

	eq, eqErr := y.equity(symbol)
	if eqErr == nil && eq != nil && eq.TrailingPE > 0 {
		f.TrailingPE = types.Float(eq.TrailingPE)
	}
	if eqErr != nil {
		logger.Warn(ctx, "Yahoo equity lookup failed", "ticker", symbol, "error", eqErr)
	}

	qsErr := y.quoteSummary(ctx, symbol, &f)
	if qsErr != nil {
		logger.Warn(ctx, "Yahoo quoteSummary lookup failed", "ticker", symbol, "error", qsErr)
	}

	if eqErr != nil && qsErr != nil {
		return types.Fundamentals{}, fmt.Errorf("yahoo fundamentals %s: %w", symbol, errors.Join(eqErr, qsErr))
	}
	return f, nil
}

func (y *Yahoo) quoteSummary(ctx context.Context, symbol string, f *types.Fundamentals) error {
	resp, err := y.quotes.GET(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), map[string]string{
		"modules": "financialData,summaryDetail",
	})
	if err != nil {
		return err
	}
	var qs quoteSummaryResponse
	if err := resp.ParseJSON(&qs); err != nil {
		return err
	}
	if e := qs.QuoteSummary.Error; e != nil {
		return fmt.Errorf("%s: %s", e.Code, e.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return marketdata.ErrNoData
	}
	r := qs.QuoteSummary.Result[0]
	f.ProfitMargin = r.FinancialData.ProfitMargins.Raw
	f.ReturnOnEquity = r.FinancialData.ReturnOnEquity.Raw
	if f.TrailingPE == nil {
		f.TrailingPE = r.SummaryDetail.TrailingPE.Raw
	}
	return nil
}
