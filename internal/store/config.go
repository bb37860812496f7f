package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	MarketData struct {
		Provider      string        `yaml:"provider" validate:"oneof=YAHOO KITE"`
		HistoryPeriod string        `yaml:"history_period" validate:"required"`
		Exchange      string        `yaml:"exchange"`
		Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
		QuoteBaseURL  string        `yaml:"quote_base_url" validate:"omitempty,url"`

		KiteAPIKey      string `yaml:"-"`
		KiteAccessToken string `yaml:"-"`
	} `yaml:"market_data"`
	News struct {
		Enabled           bool          `yaml:"enabled"`
		MaxItemsPerSource int           `yaml:"max_items_per_source" validate:"gte=1,lte=50"`
		ContentArticles   int           `yaml:"content_articles" validate:"gte=0"`
		ContentMaxChars   int           `yaml:"content_max_chars" validate:"gte=100"`
		RequestDelay      time.Duration `yaml:"request_delay" validate:"gte=0"`
		Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
		UserAgent         string        `yaml:"user_agent" validate:"required"`
		FinVizURL         string        `yaml:"finviz_url" validate:"url"`
		YahooURL          string        `yaml:"yahoo_url" validate:"url"`
	} `yaml:"news"`
	LLM struct {
		Provider    string        `yaml:"provider" validate:"oneof=CLAUDE OPENAI NONE"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens" validate:"gte=1"`
		Temperature float64       `yaml:"temperature" validate:"gte=0,lte=2"`
		Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
		BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
		APIKey      string        `yaml:"-"`
	} `yaml:"llm"`
	Cache struct {
		Backend string        `yaml:"backend" validate:"oneof=FILE BADGER MEMORY NONE"`
		Dir     string        `yaml:"dir"`
		TTL     time.Duration `yaml:"ttl" validate:"gte=0"`
	} `yaml:"cache"`
	Report struct {
		OutputDir              string  `yaml:"output_dir" validate:"required"`
		LowConfidenceThreshold float64 `yaml:"low_confidence_threshold" validate:"gte=0,lte=100"`
	} `yaml:"report"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct tag rules and the cross-field checks.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MarketData.Provider == "KITE" && (c.MarketData.KiteAPIKey == "" || c.MarketData.KiteAccessToken == "") {
		return errors.New("market_data.provider KITE requires KITE_API_KEY and KITE_ACCESS_TOKEN")
	}
	if (c.Cache.Backend == "FILE" || c.Cache.Backend == "BADGER") && c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required for backend %s", c.Cache.Backend)
	}
	if c.LLM.Provider != "NONE" && c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required for provider %s", c.LLM.Provider)
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var c Config
	c.MarketData.Provider = "YAHOO"
	c.MarketData.HistoryPeriod = "1y"
	c.MarketData.Exchange = "NSE"
	c.MarketData.Timeout = 15 * time.Second

	c.News.Enabled = true
	c.News.MaxItemsPerSource = 10
	c.News.ContentArticles = 3
	c.News.ContentMaxChars = 2000
	c.News.RequestDelay = time.Second
	c.News.Timeout = 10 * time.Second
	c.News.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	c.News.FinVizURL = "https://finviz.com"
	c.News.YahooURL = "https://finance.yahoo.com"

	c.LLM.Provider = "CLAUDE"
	c.LLM.Model = "claude-3-haiku-20240307"
	c.LLM.MaxTokens = 500
	c.LLM.Temperature = 0
	c.LLM.Timeout = 60 * time.Second

	c.Cache.Backend = "FILE"
	c.Cache.Dir = ".cache/sentiment"
	c.Cache.TTL = 0

	c.Report.OutputDir = "."
	c.Report.LowConfidenceThreshold = 60
	return &c
}

// LoadConfig reads .env (if any), then the YAML file at path layered over
// Default(), then environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	c.applyEnv()
	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PREDICT_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("PREDICT_MARKET_DATA_PROVIDER"); v != "" {
		c.MarketData.Provider = v
	}
	if v := os.Getenv("PREDICT_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("PREDICT_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("PREDICT_OUTPUT_DIR"); v != "" {
		c.Report.OutputDir = v
	}
	c.MarketData.KiteAPIKey = os.Getenv("KITE_API_KEY")
	c.MarketData.KiteAccessToken = os.Getenv("KITE_ACCESS_TOKEN")

	switch strings.ToUpper(c.LLM.Provider) {
	case "CLAUDE":
		c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "OPENAI":
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func (c *Config) normalize() {
	c.MarketData.Provider = strings.ToUpper(c.MarketData.Provider)
	c.MarketData.Exchange = strings.ToUpper(c.MarketData.Exchange)
	c.LLM.Provider = strings.ToUpper(c.LLM.Provider)
	c.Cache.Backend = strings.ToUpper(c.Cache.Backend)
}
