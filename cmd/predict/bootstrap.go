package main

import (
	"context"
	"fmt"

	"stock-predictor/internal/cache"
	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/marketdata/kite"
	"stock-predictor/internal/marketdata/marketdataobs"
	"stock-predictor/internal/marketdata/yahoo"
	"stock-predictor/internal/news"
	"stock-predictor/internal/predictor"
	"stock-predictor/internal/predictor/predictorobs"
	"stock-predictor/internal/sentiment"
	"stock-predictor/internal/sentiment/sentimentobs"
	"stock-predictor/internal/store"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeMarketData returns the configured price/fundamentals provider with observability
func initializeMarketData(ctx context.Context, cfg *store.Config) interfaces.MarketData {
	yh := yahoo.New(yahoo.Params{
		QuoteBaseURL: cfg.MarketData.QuoteBaseURL,
		Timeout:      cfg.MarketData.Timeout,
	})

	if cfg.MarketData.Provider == "KITE" {
		logger.Info(ctx, "Using Zerodha Kite for price history", "exchange", cfg.MarketData.Exchange)
		md := kite.New(kite.Params{
			APIKey:       cfg.MarketData.KiteAPIKey,
			AccessToken:  cfg.MarketData.KiteAccessToken,
			Exchange:     cfg.MarketData.Exchange,
			Fundamentals: yh,
		})
		return marketdataobs.Wrap(md, "KITE")
	}

	return marketdataobs.Wrap(yh, "YAHOO")
}

// initializeNews returns the news source, or nil when scraping is disabled
func initializeNews(ctx context.Context, cfg *store.Config) interfaces.NewsSource {
	if !cfg.News.Enabled {
		logger.Info(ctx, "News scraping disabled in config")
		return nil
	}

	scraper := news.NewScraper(news.Params{
		FinVizURL:         cfg.News.FinVizURL,
		YahooURL:          cfg.News.YahooURL,
		UserAgent:         cfg.News.UserAgent,
		Timeout:           cfg.News.Timeout,
		RequestDelay:      cfg.News.RequestDelay,
		MaxItemsPerSource: cfg.News.MaxItemsPerSource,
		ContentMaxChars:   cfg.News.ContentMaxChars,
	})
	return news.NewService(scraper, cfg.News.ContentArticles)
}

// initializeCache opens the sentiment cache for the configured backend
func initializeCache(ctx context.Context, cfg *store.Config) (interfaces.SentimentCache, error) {
	c, err := cache.New(cfg.Cache.Backend, cfg.Cache.Dir, cfg.Cache.TTL)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open sentiment cache", err, "backend", cfg.Cache.Backend, "dir", cfg.Cache.Dir)
		return nil, err
	}
	logger.Debug(ctx, "Sentiment cache ready", "backend", cfg.Cache.Backend, "dir", cfg.Cache.Dir, "ttl", cfg.Cache.TTL)
	return c, nil
}

// initializeSentiment builds the LLM-backed inferer, cached and wrapped with observability
func initializeSentiment(ctx context.Context, cfg *store.Config, c interfaces.SentimentCache, skip bool) (interfaces.SentimentInferer, error) {
	if skip {
		return sentimentobs.Wrap(sentiment.Skipped{}), nil
	}

	var model sentiment.Completer
	switch cfg.LLM.Provider {
	case "CLAUDE":
		m, err := sentiment.NewClaude(sentiment.ClaudeParams{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			BaseURL:     cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		model = m
	case "OPENAI":
		m, err := sentiment.NewOpenAI(sentiment.OpenAIParams{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			BaseURL:     cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		model = m
	default:
		logger.Warn(ctx, "No LLM provider configured - sentiment will be neutral")
		return sentimentobs.Wrap(sentiment.Skipped{}), nil
	}

	return sentimentobs.Wrap(sentiment.NewCached(sentiment.NewAnalyzer(model), c)), nil
}

// initializePredictor initializes and returns the predictor with observability
func initializePredictor(cfg *store.Config, md interfaces.MarketData, ns interfaces.NewsSource, inf interfaces.SentimentInferer) predictor.Predictor {
	p := predictor.New(predictor.Params{
		MarketData:    md,
		News:          ns,
		Sentiment:     inf,
		HistoryPeriod: cfg.MarketData.HistoryPeriod,
	})
	return predictorobs.Wrap(p)
}
