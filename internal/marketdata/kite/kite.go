package kite

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/marketdata"
	"stock-predictor/internal/types"
)

type Params struct {
	APIKey      string
	AccessToken string
	Exchange    string
	// Fundamentals, when set, answers FetchFundamentals since Kite has no
	// ratio data. The ticker is suffixed for the exchange (".NS" / ".BO").
	Fundamentals interfaces.MarketData
}

// client is the slice of kiteconnect.Client this provider needs.
type client interface {
	GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error)
	GetHistoricalData(instrumentToken int, interval string, fromDate time.Time, toDate time.Time, continuous bool, OI bool) ([]kiteconnect.HistoricalData, error)
}

// Kite serves daily candles for NSE/BSE listings from Zerodha Kite Connect.
type Kite struct {
	p      Params
	kc     client
	mapper *instrumentMapper
	now    func() time.Time

	loadOnce sync.Once
	loadErr  error
}

var _ interfaces.MarketData = (*Kite)(nil)

func New(p Params) *Kite {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	return newWithClient(p, kc)
}

func newWithClient(p Params, kc client) *Kite {
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	return &Kite{
		p:      p,
		kc:     kc,
		mapper: newInstrumentMapper(),
		now:    time.Now,
	}
}

func (k *Kite) loadInstruments(ctx context.Context) error {
	k.loadOnce.Do(func() {
		instruments, err := k.kc.GetInstrumentsByExchange(k.p.Exchange)
		if err != nil {
			k.loadErr = fmt.Errorf("kite instruments %s: %w", k.p.Exchange, err)
			return
		}
		for _, in := range instruments {
			k.mapper.addMapping(in.Tradingsymbol, in.InstrumentToken)
		}
		logger.Debug(ctx, "Loaded Kite instruments", "exchange", k.p.Exchange, "count", len(instruments))
	})
	return k.loadErr
}

func (k *Kite) FetchHistory(ctx context.Context, ticker, period string) ([]types.Bar, error) {
	to := k.now()
	from, err := marketdata.PeriodStart(period, to)
	if err != nil {
		return nil, err
	}
	if err := k.loadInstruments(ctx); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(ticker)
	token, ok := k.mapper.getToken(symbol)
	if !ok {
		return nil, fmt.Errorf("kite %s:%s: %w", k.p.Exchange, symbol, marketdata.ErrUnknownSymbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candles, err := k.kc.GetHistoricalData(token, "day", from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite history %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("kite history %s (%s): %w", symbol, period, marketdata.ErrNoData)
	}

	bars := make([]types.Bar, 0, len(candles))
	for _, c := range candles {
		bars = append(bars, types.Bar{
			Date:   c.Date.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: float64(c.Volume),
		})
	}
	return bars, nil
}

func (k *Kite) FetchFundamentals(ctx context.Context, ticker string) (types.Fundamentals, error) {
	if k.p.Fundamentals == nil {
		return types.Fundamentals{}, nil
	}
	return k.p.Fundamentals.FetchFundamentals(ctx, yahooSymbol(ticker, k.p.Exchange))
}

func yahooSymbol(ticker, exchange string) string {
	t := strings.ToUpper(ticker)
	switch strings.ToUpper(exchange) {
	case "NSE":
		return t + ".NS"
	case "BSE":
		return t + ".BO"
	}
	return t
}
