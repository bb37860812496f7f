package scoring

import (
	"fmt"
	"maps"
	"math"

	"github.com/shopspring/decimal"

	"stock-predictor/internal/ta"
	"stock-predictor/internal/types"
)

type Indicator string

const (
	MovingAverages Indicator = "moving_averages"
	Volume         Indicator = "volume"
	Momentum       Indicator = "momentum"
	PERatio        Indicator = "pe_ratio"
	ProfitMargins  Indicator = "profit_margins"
	ReturnOnEquity Indicator = "return_on_equity"
)

// Indicators lists every indicator in accumulation order.
var Indicators = []Indicator{MovingAverages, Volume, Momentum, PERatio, ProfitMargins, ReturnOnEquity}

var weights = map[Indicator]decimal.Decimal{
	MovingAverages: decimal.RequireFromString("0.20"),
	Volume:         decimal.RequireFromString("0.15"),
	Momentum:       decimal.RequireFromString("0.20"),
	PERatio:        decimal.RequireFromString("0.15"),
	ProfitMargins:  decimal.RequireFromString("0.15"),
	ReturnOnEquity: decimal.RequireFromString("0.15"),
}

func Weight(ind Indicator) float64 { return weights[ind].InexactFloat64() }

var labels = map[Indicator]string{
	MovingAverages: "Moving Averages (20/50 day)",
	Volume:         "Volume Analysis",
	Momentum:       "Momentum Indicators (RSI/MACD)",
	PERatio:        "P/E Ratio",
	ProfitMargins:  "Profit Margins",
	ReturnOnEquity: "Return on Equity",
}

func (i Indicator) Label() string {
	if l, ok := labels[i]; ok {
		return l
	}
	return string(i)
}

const (
	maWindowShort  = 20
	maWindowLong   = 50
	volumeWindow   = 20
	rsiPeriod      = 14
	macdFast       = 12
	macdSlow       = 26
	macdSignal     = 9
	momentumMinLen = macdSlow + macdSignal - 1
	neutralScore   = 50.0
)

// IndicatorReading is one scored sub-metric. Values are fixed at construction.
type IndicatorReading struct {
	name      Indicator
	score     float64
	available bool
	defaulted bool
	detail    map[string]float64
}

func NewReading(name Indicator, score float64, detail map[string]float64) IndicatorReading {
	if math.IsNaN(score) {
		return UnavailableReading(name)
	}
	return IndicatorReading{
		name:      name,
		score:     math.Min(100, math.Max(0, score)),
		available: true,
		detail:    maps.Clone(detail),
	}
}

// DefaultedReading records a neutral score for a datum the source did not report.
func DefaultedReading(name Indicator) IndicatorReading {
	return IndicatorReading{name: name, score: neutralScore, available: true, defaulted: true}
}

func UnavailableReading(name Indicator) IndicatorReading {
	return IndicatorReading{name: name}
}

func (r IndicatorReading) Name() Indicator { return r.name }
func (r IndicatorReading) Score() float64 { return r.score }
func (r IndicatorReading) Available() bool { return r.available }
func (r IndicatorReading) Defaulted() bool { return r.defaulted }
func (r IndicatorReading) Measured() bool { return r.available && !r.defaulted }
func (r IndicatorReading) Detail(key string) (float64, bool) {
	v, ok := r.detail[key]
	return v, ok
}

// ScoreMovingAverages awards 50 for price above each average and 20 for an
// uptrend (MA20 above MA50). The 120 raw points are kept in the detail map and
// the score is capped at 100.
func ScoreMovingAverages(current, ma20, ma50 float64) IndicatorReading {
	if math.IsNaN(current) || math.IsNaN(ma20) || math.IsNaN(ma50) {
		return UnavailableReading(MovingAverages)
	}
	points := 0.0
	if current > ma20 {
		points += 50
	}
	if current > ma50 {
		points += 50
	}
	if ma20 > ma50 {
		points += 20
	}
	return NewReading(MovingAverages, points, map[string]float64{
		"ma20": ma20, "ma50": ma50, "current": current, "raw_points": points,
	})
}

func ScoreVolume(current, avg20 float64) IndicatorReading {
	if math.IsNaN(avg20) || avg20 <= 0 || math.IsNaN(current) {
		return UnavailableReading(Volume)
	}
	ratio := current / avg20
	var score float64
	switch {
	case ratio > 1.5:
		score = 100
	case ratio > 1.2:
		score = 75
	case ratio > 0.8:
		score = 50
	default:
		score = 25
	}
	return NewReading(Volume, score, map[string]float64{"volume_ratio": ratio, "avg_volume": avg20})
}

func rsiScore(rsi float64) float64 {
	switch {
	case rsi >= 30 && rsi <= 70:
		return 100
	case (rsi >= 20 && rsi < 30) || (rsi > 70 && rsi <= 80):
		return 75
	default:
		return 25
	}
}

func ScoreMomentum(rsi, macdLine, macdSig float64) IndicatorReading {
	if math.IsNaN(rsi) || math.IsNaN(macdLine) || math.IsNaN(macdSig) {
		return UnavailableReading(Momentum)
	}
	macdScore := 25.0
	if macdLine > macdSig {
		macdScore = 100
	}
	return NewReading(Momentum, (rsiScore(rsi)+macdScore)/2, map[string]float64{
		"rsi": rsi, "macd_line": macdLine, "macd_signal": macdSig,
	})
}

func ScorePERatio(pe *float64) IndicatorReading {
	if pe == nil || math.IsNaN(*pe) || *pe <= 0 {
		return DefaultedReading(PERatio)
	}
	v := *pe
	var score float64
	switch {
	case v >= 10 && v <= 20:
		score = 100
	case (v >= 5 && v < 10) || (v > 20 && v <= 30):
		score = 75
	case v < 5 || (v > 30 && v <= 50):
		score = 50
	default:
		score = 25
	}
	return NewReading(PERatio, score, map[string]float64{"pe_ratio": v})
}

// ScoreProfitMargin takes the margin as a fraction; zero counts as unreported.
func ScoreProfitMargin(margin *float64) IndicatorReading {
	if margin == nil || math.IsNaN(*margin) || *margin == 0 {
		return DefaultedReading(ProfitMargins)
	}
	pct := *margin * 100
	var score float64
	switch {
	case pct > 20:
		score = 100
	case pct > 10:
		score = 75
	case pct > 5:
		score = 50
	default:
		score = 25
	}
	return NewReading(ProfitMargins, score, map[string]float64{"profit_margin_pct": pct})
}

// ScoreReturnOnEquity takes ROE as a fraction; zero counts as unreported.
func ScoreReturnOnEquity(roe *float64) IndicatorReading {
	if roe == nil || math.IsNaN(*roe) || *roe == 0 {
		return DefaultedReading(ReturnOnEquity)
	}
	pct := *roe * 100
	var score float64
	switch {
	case pct > 15:
		score = 100
	case pct > 10:
		score = 75
	case pct > 5:
		score = 50
	default:
		score = 25
	}
	return NewReading(ReturnOnEquity, score, map[string]float64{"roe_pct": pct})
}

// FinancialAssessment is the weighted combination of the six readings.
type FinancialAssessment struct {
	score    float64
	readings map[Indicator]IndicatorReading
}

// NewFinancialAssessment combines readings with the fixed weights. Indicators
// without a reading, or with an unavailable one, contribute nothing and the
// remaining weights are not rescaled.
func NewFinancialAssessment(readings ...IndicatorReading) (FinancialAssessment, error) {
	byName := make(map[Indicator]IndicatorReading, len(Indicators))
	for _, r := range readings {
		if _, ok := weights[r.name]; !ok {
			return FinancialAssessment{}, fmt.Errorf("%w: unknown indicator %q", ErrInvalidInput, r.name)
		}
		byName[r.name] = r
	}
	total := decimal.Zero
	for _, ind := range Indicators {
		r, ok := byName[ind]
		if !ok {
			byName[ind] = UnavailableReading(ind)
			continue
		}
		if !r.available {
			continue
		}
		total = total.Add(decimal.NewFromFloat(r.score).Mul(weights[ind]))
	}
	return FinancialAssessment{score: round(total, 2), readings: byName}, nil
}

func (fa FinancialAssessment) Score() float64 { return fa.score }

func (fa FinancialAssessment) Reading(ind Indicator) IndicatorReading {
	if r, ok := fa.readings[ind]; ok {
		return r
	}
	return UnavailableReading(ind)
}

// Contribution is the weighted share of one indicator, rounded to 2 dp.
func (fa FinancialAssessment) Contribution(ind Indicator) float64 {
	r := fa.Reading(ind)
	if !r.available {
		return 0
	}
	return round(decimal.NewFromFloat(r.score).Mul(weights[ind]), 2)
}

// Completeness is the share of indicators backed by measured data.
func (fa FinancialAssessment) Completeness() float64 {
	n := 0
	for _, ind := range Indicators {
		if fa.Reading(ind).Measured() {
			n++
		}
	}
	return float64(n) / float64(len(Indicators))
}

// ComputeFinancialAssessment scores a daily price history (oldest first) and
// the reported fundamentals.
func ComputeFinancialAssessment(history []types.Bar, f types.Fundamentals) (FinancialAssessment, error) {
	if len(history) == 0 {
		return FinancialAssessment{}, fmt.Errorf("price history: %w", ErrDataUnavailable)
	}
	closes := make([]float64, len(history))
	volumes := make([]float64, len(history))
	for i, b := range history {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}
	last := len(history) - 1

	ma := UnavailableReading(MovingAverages)
	if len(closes) >= maWindowLong {
		ma = ScoreMovingAverages(closes[last], ta.SMA(closes, maWindowShort), ta.SMA(closes, maWindowLong))
	}

	vol := UnavailableReading(Volume)
	if len(volumes) >= volumeWindow {
		vol = ScoreVolume(volumes[last], ta.SMA(volumes, volumeWindow))
	}

	mom := UnavailableReading(Momentum)
	if len(closes) >= momentumMinLen {
		line, sig := ta.MACD(closes, macdFast, macdSlow, macdSignal)
		mom = ScoreMomentum(ta.RSI(closes, rsiPeriod), line, sig)
	}

	return NewFinancialAssessment(
		ma,
		vol,
		mom,
		ScorePERatio(f.TrailingPE),
		ScoreProfitMargin(f.ProfitMargin),
		ScoreReturnOnEquity(f.ReturnOnEquity),
	)
}

func round(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}
