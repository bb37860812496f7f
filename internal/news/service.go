package news

import (
	"context"
	"strings"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/types"
)

// Service assembles the news bundle for a ticker from FinViz and Yahoo.
type Service struct {
	scraper         *Scraper
	contentArticles int
}

var _ interfaces.NewsSource = (*Service)(nil)

// NewService creates a news service; contentArticles is how many Yahoo
// articles get their full body fetched.
func NewService(scraper *Scraper, contentArticles int) *Service {
	if contentArticles < 0 {
		contentArticles = 0
	}
	return &Service{scraper: scraper, contentArticles: contentArticles}
}

// FetchNewsItems never fails on a single source: a source that errors
// contributes no items. Only cancellation is returned as an error.
func (s *Service) FetchNewsItems(ctx context.Context, ticker string) (types.NewsBundle, error) {
	ticker = strings.ToUpper(ticker)
	bundle := types.NewsBundle{Ticker: ticker}

	finviz, err := s.scraper.ScrapeFinViz(ctx, ticker)
	if err != nil {
		if ctx.Err() != nil {
			return bundle, ctx.Err()
		}
		logger.Warn(ctx, "Error scraping FinViz", "ticker", ticker, "error", err)
	}
	bundle.FinViz = finviz

	yahoo, err := s.scraper.ScrapeYahoo(ctx, ticker)
	if err != nil {
		if ctx.Err() != nil {
			return bundle, ctx.Err()
		}
		logger.Warn(ctx, "Error scraping Yahoo Finance", "ticker", ticker, "error", err)
	}

	for i := range yahoo {
		if i >= s.contentArticles {
			break
		}
		if yahoo[i].URL != "" {
			yahoo[i].Content = s.scraper.FetchArticleContent(ctx, yahoo[i].URL)
		}
	}
	bundle.Yahoo = yahoo

	if err := ctx.Err(); err != nil {
		return bundle, err
	}

	logger.Info(ctx, "News scraping complete",
		"ticker", ticker,
		"finviz", len(bundle.FinViz),
		"yahoo", len(bundle.Yahoo),
	)
	return bundle, nil
}
