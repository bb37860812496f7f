package sentiment

import (
	"encoding/json"
	"math"
	"strings"

	"stock-predictor/internal/types"
)

var (
	positiveWords = []string{"positive", "bullish", "growth", "strong", "buy", "outperform", "upgrade"}
	negativeWords = []string{"negative", "bearish", "decline", "weak", "sell", "underperform", "downgrade"}
)

// rawAssessment mirrors the JSON the model is asked for. Pointers tell a
// missing key apart from a zero value.
type rawAssessment struct {
	Score      *float64 `json:"sentiment_score"`
	Label      *string  `json:"sentiment_label"`
	Confidence *float64 `json:"confidence"`
	Reasoning  *string  `json:"reasoning"`
}

// ParseResponse turns a model reply into a validated assessment. It never
// fails: replies without usable JSON fall back to keyword counting.
func ParseResponse(text string) types.SentimentAssessment {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var raw rawAssessment
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err == nil {
			return validate(raw)
		}
	}
	return keywordFallback(text)
}

func validate(raw rawAssessment) types.SentimentAssessment {
	sa := types.SentimentAssessment{
		Score:      50,
		Label:      types.SentimentNeutral,
		Confidence: 50,
		Reasoning:  "No reasoning provided",
	}
	if raw.Score != nil {
		sa.Score = clamp(*raw.Score)
	}
	if raw.Confidence != nil {
		sa.Confidence = clamp(*raw.Confidence)
	}
	if raw.Reasoning != nil {
		sa.Reasoning = *raw.Reasoning
	}
	if raw.Label != nil {
		sa.Label = types.SentimentLabel(strings.ToUpper(strings.TrimSpace(*raw.Label)))
		if !sa.Label.Valid() {
			sa.Label = labelFor(sa.Score)
		}
	}
	return sa
}

func labelFor(score float64) types.SentimentLabel {
	switch {
	case score > 60:
		return types.SentimentPositive
	case score < 40:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

func keywordFallback(text string) types.SentimentAssessment {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	sa := types.SentimentAssessment{
		Score:      50,
		Label:      types.SentimentNeutral,
		Confidence: 50,
		Reasoning:  "Parsed from text response",
	}
	switch {
	case pos > neg:
		sa.Score, sa.Label = 70, types.SentimentPositive
	case neg > pos:
		sa.Score, sa.Label = 30, types.SentimentNegative
	}
	return sa
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 50
	}
	return math.Max(0, math.Min(100, v))
}
