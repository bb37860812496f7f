package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"stock-predictor/internal/types"
)

type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	WeakBuy    Recommendation = "WEAK_BUY"
	Hold       Recommendation = "HOLD"
	WeakSell   Recommendation = "WEAK_SELL"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// Display renders the tier for humans, e.g. "STRONG BUY".
func (r Recommendation) Display() string { return strings.ReplaceAll(string(r), "_", " ") }

func (r Recommendation) IsBuy() bool { return r == StrongBuy || r == Buy || r == WeakBuy }
func (r Recommendation) IsSell() bool { return r == StrongSell || r == Sell || r == WeakSell }

type tier struct {
	min       float64
	rec       Recommendation
	reasoning string
}

// evaluated top-down; the first lower bound reached wins
var tiers = []tier{
	{75, StrongBuy, "Strong financial fundamentals and positive market sentiment indicate excellent investment opportunity."},
	{65, Buy, "Good financial performance with positive outlook suggests favorable investment potential."},
	{55, WeakBuy, "Moderate financial strength with decent sentiment indicates potential upside with some caution."},
	{45, Hold, "Mixed financial indicators and neutral sentiment suggest maintaining current position."},
	{35, WeakSell, "Below-average financial performance with concerning sentiment indicates potential downside risk."},
	{25, Sell, "Poor financial fundamentals and negative sentiment suggest significant downside risk."},
	{math.Inf(-1), StrongSell, "Weak financial position and very negative sentiment indicate high probability of losses."},
}

// TierFor maps a blended score to its recommendation and fixed reasoning.
func TierFor(score float64) (Recommendation, string) {
	for _, t := range tiers {
		if score >= t.min {
			return t.rec, t.reasoning
		}
	}
	last := tiers[len(tiers)-1]
	return last.rec, last.reasoning
}

var (
	financialWeight = decimal.RequireFromString("0.70")
	sentimentWeight = decimal.RequireFromString("0.30")
)

type Breakdown struct {
	FinancialWeight       float64 `json:"financial_weight"`
	SentimentWeight       float64 `json:"sentiment_weight"`
	FinancialContribution float64 `json:"financial_contribution"`
	SentimentContribution float64 `json:"sentiment_contribution"`
}

type OverallAssessment struct {
	Score          float64        `json:"overall_score"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      string         `json:"recommendation_reasoning"`
	Confidence     float64        `json:"confidence"`
	FinancialScore float64        `json:"financial_score"`
	SentimentScore float64        `json:"sentiment_score"`
	Breakdown      Breakdown      `json:"analysis_breakdown"`
}

// ComputeOverallAssessment blends the financial (70%) and sentiment (30%)
// scores, picks a tier from the unrounded blend and estimates confidence.
// Out-of-range or non-finite inputs are rejected with ErrInvalidInput.
func ComputeOverallAssessment(fa FinancialAssessment, sa types.SentimentAssessment) (OverallAssessment, error) {
	if err := checkRange("financial score", fa.Score()); err != nil {
		return OverallAssessment{}, err
	}
	if err := checkRange("sentiment score", sa.Score); err != nil {
		return OverallAssessment{}, err
	}
	if err := checkRange("sentiment confidence", sa.Confidence); err != nil {
		return OverallAssessment{}, err
	}

	fin := decimal.NewFromFloat(fa.Score())
	sent := decimal.NewFromFloat(sa.Score)
	finPart := fin.Mul(financialWeight)
	sentPart := sent.Mul(sentimentWeight)
	blended := finPart.Add(sentPart)

	rec, reasoning := TierFor(blended.InexactFloat64())
	return OverallAssessment{
		Score:          round(blended, 2),
		Recommendation: rec,
		Reasoning:      reasoning,
		Confidence:     confidence(fa.Completeness(), sa.Confidence, fa.Score(), sa.Score),
		FinancialScore: fa.Score(),
		SentimentScore: sa.Score,
		Breakdown: Breakdown{
			FinancialWeight:       financialWeight.InexactFloat64(),
			SentimentWeight:       sentimentWeight.InexactFloat64(),
			FinancialContribution: round(finPart, 2),
			SentimentContribution: round(sentPart, 2),
		},
	}, nil
}

var (
	baseConfidence       = decimal.NewFromInt(50)
	completenessPoints   = decimal.NewFromInt(20)
	sentimentConfFactor  = decimal.RequireFromString("0.3")
	alignedThreshold     = decimal.NewFromInt(20)
	conflictingThreshold = decimal.NewFromInt(40)
	alignedBonus         = decimal.NewFromInt(10)
	conflictPenalty      = decimal.NewFromInt(15)
)

func confidence(completeness, sentimentConf, financial, sentiment float64) float64 {
	c := baseConfidence.
		Add(decimal.NewFromFloat(completeness).Mul(completenessPoints)).
		Add(decimal.NewFromFloat(sentimentConf).Sub(baseConfidence).Mul(sentimentConfFactor))

	diff := decimal.NewFromFloat(financial).Sub(decimal.NewFromFloat(sentiment)).Abs()
	switch {
	case diff.LessThan(alignedThreshold):
		c = c.Add(alignedBonus)
	case diff.GreaterThan(conflictingThreshold):
		c = c.Sub(conflictPenalty)
	}

	if c.IsNegative() {
		c = decimal.Zero
	}
	if c.GreaterThan(decimal.NewFromInt(100)) {
		c = decimal.NewFromInt(100)
	}
	return round(c, 1)
}

func checkRange(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
		return fmt.Errorf("%w: %s %v outside [0,100]", ErrInvalidInput, field, v)
	}
	return nil
}
