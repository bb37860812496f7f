package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/logger"
	"stock-predictor/internal/types"
)

// ErrInference marks a failed model call. The assessment returned alongside
// it is the neutral fallback and is safe to use.
var ErrInference = errors.New("sentiment inference failed")

const (
	noNewsReason  = "No news data available for analysis"
	SkippedReason = "Sentiment analysis was skipped"
)

// Completer sends a single prompt to a language model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Analyzer scores news sentiment through a Completer.
type Analyzer struct {
	model Completer
}

var _ interfaces.SentimentInferer = (*Analyzer)(nil)

func NewAnalyzer(model Completer) *Analyzer {
	return &Analyzer{model: model}
}

// InferSentiment asks the model for a sentiment reading of the bundle.
// An empty bundle yields the neutral reading without a model call.
func (a *Analyzer) InferSentiment(ctx context.Context, ticker string, bundle types.NewsBundle) (types.SentimentAssessment, error) {
	text := bundle.Text()
	if strings.TrimSpace(text) == "" {
		sa := types.NeutralSentiment(noNewsReason)
		sa.Provider = a.model.Name()
		return sa, nil
	}

	reply, err := a.model.Complete(ctx, BuildPrompt(ticker, text))
	if err != nil {
		sa := types.NeutralSentiment(fmt.Sprintf("Error in sentiment analysis: %v", err))
		sa.Provider = a.model.Name()
		return sa, fmt.Errorf("%w: %s: %w", ErrInference, a.model.Name(), err)
	}

	sa := ParseResponse(reply)
	sa.Provider = a.model.Name()
	logger.Debug(ctx, "Sentiment parsed", "ticker", ticker, "label", sa.Label, "score", sa.Score)
	return sa, nil
}

// Skipped is the inferer used when sentiment is disabled. It always returns
// the neutral reading with the given reason.
type Skipped struct {
	Reason string
}

var _ interfaces.SentimentInferer = Skipped{}

func (s Skipped) InferSentiment(ctx context.Context, ticker string, _ types.NewsBundle) (types.SentimentAssessment, error) {
	reason := s.Reason
	if reason == "" {
		reason = SkippedReason
	}
	logger.Debug(ctx, "Sentiment skipped", "ticker", ticker, "reason", reason)
	sa := types.NeutralSentiment(reason)
	sa.Provider = "none"
	return sa, nil
}
