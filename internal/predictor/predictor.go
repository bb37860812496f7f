// Package predictor runs one analysis: fetch market data and news, score
// them, infer sentiment and blend everything into a recommendation.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/scoring"
	"stock-predictor/internal/sentiment"
	"stock-predictor/internal/types"
)

var ErrEmptyTicker = errors.New("ticker is required")

// Predictor produces a recommendation for a single ticker.
type Predictor interface {
	Predict(ctx context.Context, ticker string, opts Options) (*Result, error)
}

type Options struct {
	// NoSentiment skips the model call and uses a neutral reading.
	NoSentiment bool
}

// Result is a finished analysis. Financial, Sentiment and Overall are the
// inputs a report is rendered from.
type Result struct {
	Ticker       string
	Bars         int
	LastClose    float64
	Fundamentals types.Fundamentals
	News         types.NewsBundle
	Financial    scoring.FinancialAssessment
	Sentiment    types.SentimentAssessment
	Overall      scoring.OverallAssessment
}

type Params struct {
	MarketData    interfaces.MarketData
	News          interfaces.NewsSource // nil disables news scraping
	Sentiment     interfaces.SentimentInferer
	HistoryPeriod string
}

type Service struct {
	md            interfaces.MarketData
	news          interfaces.NewsSource
	sentiment     interfaces.SentimentInferer
	historyPeriod string
}

var _ Predictor = (*Service)(nil)

func New(p Params) *Service {
	period := p.HistoryPeriod
	if period == "" {
		period = "1y"
	}
	inferer := p.Sentiment
	if inferer == nil {
		inferer = sentiment.Skipped{}
	}
	return &Service{md: p.MarketData, news: p.News, sentiment: inferer, historyPeriod: period}
}

func (s *Service) Predict(ctx context.Context, ticker string, opts Options) (*Result, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	var (
		history []types.Bar
		fund    types.Fundamentals
		bundle  = types.NewsBundle{Ticker: ticker}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bars, err := s.md.FetchHistory(gctx, ticker, s.historyPeriod)
		if err != nil {
			return fmt.Errorf("%w: price history for %s: %w", scoring.ErrDataUnavailable, ticker, err)
		}
		history = bars
		return nil
	})
	g.Go(func() error {
		f, err := s.md.FetchFundamentals(gctx, ticker)
		if err != nil {
			return fmt.Errorf("%w: fundamentals for %s: %w", scoring.ErrDataUnavailable, ticker, err)
		}
		fund = f
		return nil
	})
	if s.news != nil {
		g.Go(func() error {
			b, err := s.news.FetchNewsItems(gctx, ticker)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				logger.Warn(gctx, "News unavailable, continuing without it", "ticker", ticker, "error", err)
				return nil
			}
			bundle = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	fa, err := scoring.ComputeFinancialAssessment(history, fund)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}
	logger.Info(ctx, "Financial analysis complete",
		"ticker", ticker,
		"score", fa.Score(),
		"completeness", fa.Completeness(),
	)

	sa, err := s.inferSentiment(ctx, ticker, bundle, opts)
	if err != nil {
		return nil, err
	}

	overall, err := scoring.ComputeOverallAssessment(fa, sa)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ticker, err)
	}

	logger.Recommendation(ctx, ticker, string(overall.Recommendation), overall.Score, overall.Confidence,
		"financial_score", overall.FinancialScore,
		"sentiment_score", overall.SentimentScore,
		"sentiment_label", sa.Label,
		"news_items", len(bundle.FinViz)+len(bundle.Yahoo),
	)

	return &Result{
		Ticker:       ticker,
		Bars:         len(history),
		LastClose:    history[len(history)-1].Close,
		Fundamentals: fund,
		News:         bundle,
		Financial:    fa,
		Sentiment:    sa,
		Overall:      overall,
	}, nil
}

// inferSentiment never fails on model errors: the inferer's neutral fallback
// is used instead. Only cancellation is returned.
func (s *Service) inferSentiment(ctx context.Context, ticker string, bundle types.NewsBundle, opts Options) (types.SentimentAssessment, error) {
	if opts.NoSentiment {
		return sentiment.Skipped{}.InferSentiment(ctx, ticker, bundle)
	}

	sa, err := s.sentiment.InferSentiment(ctx, ticker, bundle)
	if err != nil {
		if ctx.Err() != nil {
			return types.SentimentAssessment{}, ctx.Err()
		}
		logger.Warn(ctx, "Using neutral sentiment after inference failure", "ticker", ticker, "error", err)
		if !sa.Label.Valid() {
			sa = types.NeutralSentiment(fmt.Sprintf("Error in sentiment analysis: %v", err))
		}
	}
	return sa, nil
}
