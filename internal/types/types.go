package types

import (
	"strings"
	"time"
)

type Bar struct {
	Date                           time.Time
	Open, High, Low, Close, Volume float64
}

// Fundamentals carries optional per-share/ratio data. Nil means the source
// did not report the field.
type Fundamentals struct {
	TrailingPE     *float64 `json:"trailing_pe,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	ReturnOnEquity *float64 `json:"return_on_equity,omitempty"`
}

func Float(v float64) *float64 { return &v }

type NewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary,omitempty"`
	Content  string `json:"content,omitempty"`
	URL      string `json:"url,omitempty"`
	Time     string `json:"time,omitempty"`
	Source   string `json:"source"`
}

// NewsBundle groups the items scraped for one ticker, per source.
type NewsBundle struct {
	Ticker string     `json:"ticker"`
	FinViz []NewsItem `json:"finviz"`
	Yahoo  []NewsItem `json:"yahoo"`
}

func (b NewsBundle) Items() []NewsItem {
	out := make([]NewsItem, 0, len(b.FinViz)+len(b.Yahoo))
	out = append(out, b.FinViz...)
	return append(out, b.Yahoo...)
}

func (b NewsBundle) Empty() bool { return len(b.FinViz) == 0 && len(b.Yahoo) == 0 }

const promptContentLimit = 500

// Text renders the bundle as the block of text handed to a sentiment model.
func (b NewsBundle) Text() string {
	var parts []string
	for _, it := range b.FinViz {
		if it.Headline != "" {
			parts = append(parts, "HEADLINE: "+it.Headline)
		}
	}
	for _, it := range b.Yahoo {
		if it.Headline != "" {
			parts = append(parts, "HEADLINE: "+it.Headline)
		}
		if it.Summary != "" {
			parts = append(parts, "SUMMARY: "+it.Summary)
		}
		if it.Content != "" {
			parts = append(parts, "CONTENT: "+Truncate(it.Content, promptContentLimit))
		}
	}
	return strings.Join(parts, "\n\n")
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

type SentimentAssessment struct {
	Score      float64        `json:"sentiment_score"`
	Label      SentimentLabel `json:"sentiment_label"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Provider   string         `json:"provider,omitempty"`
	Cached     bool           `json:"-"`
}

// NeutralSentiment is the fallback used when no inference could be made.
func NeutralSentiment(reason string) SentimentAssessment {
	return SentimentAssessment{Score: 50, Label: SentimentNeutral, Confidence: 0, Reasoning: reason}
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
