package predictor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/internal/marketdata"
	"stock-predictor/internal/scoring"
	"stock-predictor/internal/sentiment"
	"stock-predictor/internal/types"
)

type stubMarketData struct {
	bars    []types.Bar
	fund    types.Fundamentals
	histErr error
	fundErr error
	period  string
}

func (s *stubMarketData) FetchHistory(_ context.Context, _ string, period string) ([]types.Bar, error) {
	s.period = period
	return s.bars, s.histErr
}

func (s *stubMarketData) FetchFundamentals(context.Context, string) (types.Fundamentals, error) {
	return s.fund, s.fundErr
}

type stubNews struct {
	bundle types.NewsBundle
	err    error
}

func (s stubNews) FetchNewsItems(_ context.Context, ticker string) (types.NewsBundle, error) {
	b := s.bundle
	b.Ticker = ticker
	return b, s.err
}

type stubInferer struct {
	sa    types.SentimentAssessment
	err   error
	calls atomic.Int32
}

func (s *stubInferer) InferSentiment(context.Context, string, types.NewsBundle) (types.SentimentAssessment, error) {
	s.calls.Add(1)
	return s.sa, s.err
}

// risingBars closes at 100, 101, ... with a volume spike on the last bar.
func risingBars(n int) []types.Bar {
	bars := make([]types.Bar, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = types.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	bars[n-1].Volume = 3000
	return bars
}

var news = types.NewsBundle{
	FinViz: []types.NewsItem{{Headline: "Shares climb", Source: "FinViz"}},
	Yahoo:  []types.NewsItem{{Headline: "Upgrade", Summary: "Analyst upgrade", Source: "Yahoo Finance"}},
}

func TestPredict(t *testing.T) {
	md := &stubMarketData{bars: risingBars(60)}
	inf := &stubInferer{sa: types.SentimentAssessment{Score: 80, Label: types.SentimentPositive, Confidence: 90, Provider: "stub"}}
	svc := New(Params{MarketData: md, News: stubNews{bundle: news}, Sentiment: inf, HistoryPeriod: "6mo"})

	res, err := svc.Predict(context.Background(), " aapl ", Options{})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", res.Ticker)
	assert.Equal(t, "6mo", md.period)
	assert.Equal(t, 60, res.Bars)
	assert.Equal(t, 159.0, res.LastClose)
	assert.Equal(t, 70.0, res.Financial.Score())
	assert.Len(t, res.News.Items(), 2)
	assert.Equal(t, int32(1), inf.calls.Load())

	// 70*0.7 + 80*0.3 = 73
	assert.Equal(t, 73.0, res.Overall.Score)
	assert.Equal(t, scoring.Buy, res.Overall.Recommendation)
}

func TestPredictNoSentiment(t *testing.T) {
	inf := &stubInferer{sa: types.SentimentAssessment{Score: 99, Label: types.SentimentPositive, Confidence: 99}}
	svc := New(Params{MarketData: &stubMarketData{bars: risingBars(60)}, News: stubNews{bundle: news}, Sentiment: inf})

	res, err := svc.Predict(context.Background(), "AAPL", Options{NoSentiment: true})
	require.NoError(t, err)

	assert.Equal(t, int32(0), inf.calls.Load())
	assert.Equal(t, "Sentiment analysis was skipped", res.Sentiment.Reasoning)
	assert.Equal(t, 50.0, res.Overall.SentimentScore)
	assert.Len(t, res.News.Items(), 2, "news is still collected for the report")
}

func TestPredictSentimentFailureIsNotFatal(t *testing.T) {
	fallback := types.NeutralSentiment("Error in sentiment analysis: quota")
	inf := &stubInferer{sa: fallback, err: errors.Join(sentiment.ErrInference, errors.New("quota"))}
	svc := New(Params{MarketData: &stubMarketData{bars: risingBars(60)}, Sentiment: inf})

	res, err := svc.Predict(context.Background(), "AAPL", Options{})
	require.NoError(t, err)
	assert.Equal(t, fallback.Reasoning, res.Sentiment.Reasoning)
	assert.Equal(t, 0.0, res.Sentiment.Confidence)
}

func TestPredictSentimentFailureWithoutFallback(t *testing.T) {
	inf := &stubInferer{err: errors.New("boom")}
	svc := New(Params{MarketData: &stubMarketData{bars: risingBars(60)}, Sentiment: inf})

	res, err := svc.Predict(context.Background(), "AAPL", Options{})
	require.NoError(t, err)
	assert.Equal(t, types.SentimentNeutral, res.Sentiment.Label)
	assert.Equal(t, "Error in sentiment analysis: boom", res.Sentiment.Reasoning)
}

func TestPredictNewsFailureIsNotFatal(t *testing.T) {
	svc := New(Params{
		MarketData: &stubMarketData{bars: risingBars(60)},
		News:       stubNews{err: errors.New("scrape failed")},
		Sentiment:  &stubInferer{sa: types.NeutralSentiment("No news data available for analysis")},
	})

	res, err := svc.Predict(context.Background(), "AAPL", Options{})
	require.NoError(t, err)
	assert.True(t, res.News.Empty())
	assert.Equal(t, "AAPL", res.News.Ticker)
}

func TestPredictDataUnavailable(t *testing.T) {
	tests := []struct {
		name string
		md   *stubMarketData
	}{
		{"history error", &stubMarketData{histErr: marketdata.ErrNoData}},
		{"empty history", &stubMarketData{}},
		{"fundamentals error", &stubMarketData{bars: risingBars(60), fundErr: errors.New("quote failed")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(Params{MarketData: tt.md})
			_, err := svc.Predict(context.Background(), "ZZZZ", Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, scoring.ErrDataUnavailable)
			assert.Contains(t, err.Error(), "ZZZZ")
		})
	}
}

func TestPredictEmptyTicker(t *testing.T) {
	_, err := New(Params{MarketData: &stubMarketData{}}).Predict(context.Background(), "  ", Options{})
	assert.ErrorIs(t, err, ErrEmptyTicker)
}

func TestPredictCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	md := &stubMarketData{histErr: context.Canceled}
	_, err := New(Params{MarketData: md}).Predict(ctx, "AAPL", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
