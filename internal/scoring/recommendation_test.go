package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-predictor/internal/types"
)

func sentiment(score, conf float64) types.SentimentAssessment {
	return types.SentimentAssessment{Score: score, Label: types.SentimentNeutral, Confidence: conf}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Recommendation
	}{
		{100, StrongBuy},
		{75.0, StrongBuy},
		{74.99, Buy},
		{65.0, Buy},
		{55, WeakBuy},
		{45.0, Hold},
		{44.99, WeakSell},
		{35, WeakSell},
		{25, Sell},
		{24.9999, StrongSell},
		{0, StrongSell},
	}
	for _, tc := range cases {
		got, reasoning := TierFor(tc.score)
		assert.Equal(t, tc.want, got, "score %v", tc.score)
		assert.NotEmpty(t, reasoning)
	}
}

func TestOverallAllPerfect(t *testing.T) {
	fa, err := NewFinancialAssessment(allReadings(100)...)
	require.NoError(t, err)
	require.Equal(t, 100.0, fa.Score())

	oa, err := ComputeOverallAssessment(fa, sentiment(100, 100))
	require.NoError(t, err)
	assert.Equal(t, 100.0, oa.Score)
	assert.Equal(t, StrongBuy, oa.Recommendation)
	assert.Equal(t, 95.0, oa.Confidence)
	assert.Equal(t, "STRONG BUY", oa.Recommendation.Display())
}

func TestOverallBlendExample(t *testing.T) {
	fa, err := NewFinancialAssessment(allReadings(80)...)
	require.NoError(t, err)

	oa, err := ComputeOverallAssessment(fa, sentiment(60, 50))
	require.NoError(t, err)
	assert.Equal(t, 74.0, oa.Score)
	assert.Equal(t, Buy, oa.Recommendation)
	assert.Equal(t, 80.0, oa.FinancialScore)
	assert.Equal(t, 60.0, oa.SentimentScore)
	assert.Equal(t, Breakdown{
		FinancialWeight:       0.7,
		SentimentWeight:       0.3,
		FinancialContribution: 56,
		SentimentContribution: 18,
	}, oa.Breakdown)
	// diff of exactly 20 is in the neutral band
	assert.Equal(t, 70.0, oa.Confidence)
}

func TestOverallMissingFundamentals(t *testing.T) {
	fa, err := NewFinancialAssessment(
		NewReading(MovingAverages, 100, nil),
		NewReading(Volume, 100, nil),
		NewReading(Momentum, 100, nil),
		DefaultedReading(PERatio),
		DefaultedReading(ProfitMargins),
		DefaultedReading(ReturnOnEquity),
	)
	require.NoError(t, err)

	oa, err := ComputeOverallAssessment(fa, sentiment(50, 0))
	require.NoError(t, err)
	// 77.5*0.7 + 50*0.3
	assert.Equal(t, 69.25, oa.Score)
	assert.Equal(t, Buy, oa.Recommendation)
	// 50 + 10 - 15 + 0 (diff 27.5)
	assert.Equal(t, 45.0, oa.Confidence)
}

func TestTierUsesUnroundedBlend(t *testing.T) {
	// 64.99*0.7 + 65.01*0.3 = 64.996, displayed as 65.00
	fa, err := NewFinancialAssessment(allReadings(64.99)...)
	require.NoError(t, err)
	oa, err := ComputeOverallAssessment(fa, sentiment(65.01, 50))
	require.NoError(t, err)
	assert.Equal(t, 65.0, oa.Score)
	assert.Equal(t, WeakBuy, oa.Recommendation)
}

func TestInvalidInputRejected(t *testing.T) {
	fa, err := NewFinancialAssessment(allReadings(60)...)
	require.NoError(t, err)

	bad := []types.SentimentAssessment{
		sentiment(101, 50),
		sentiment(-0.1, 50),
		sentiment(math.NaN(), 50),
		sentiment(math.Inf(1), 50),
		sentiment(50, 150),
		sentiment(50, -1),
		sentiment(50, math.NaN()),
	}
	for _, sa := range bad {
		_, err := ComputeOverallAssessment(fa, sa)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", sa)
	}

	_, err = ComputeOverallAssessment(fa, sentiment(0, 0))
	assert.NoError(t, err)
	_, err = ComputeOverallAssessment(fa, sentiment(100, 100))
	assert.NoError(t, err)
}

func TestConfidenceMonotoneInCompleteness(t *testing.T) {
	for _, sc := range []float64{0, 35, 50, 80, 100} {
		for _, pair := range [][2]float64{{80, 75}, {70, 45}, {90, 10}, {0, 100}} {
			prev := -1.0
			for n := 0; n <= len(Indicators); n++ {
				c := confidence(float64(n)/float64(len(Indicators)), sc, pair[0], pair[1])
				assert.GreaterOrEqual(t, c, prev)
				prev = c
			}
		}
	}
}

func TestConfidenceAlignmentSymmetry(t *testing.T) {
	scores := []float64{0, 12.5, 30, 49.99, 50, 70, 90.25, 100}
	for _, a := range scores {
		for _, b := range scores {
			assert.Equal(t, confidence(0.5, 70, a, b), confidence(0.5, 70, b, a), "%v/%v", a, b)
		}
	}
}

func TestConfidenceAdjustments(t *testing.T) {
	cases := []struct {
		name            string
		completeness    float64
		sentConf        float64
		financial, sent float64
		want            float64
	}{
		{"aligned", 1, 50, 60, 60, 80},
		{"neutral band low edge", 1, 50, 60, 40, 70},
		{"neutral band high edge", 1, 50, 80, 40, 70},
		{"conflicting", 1, 50, 90, 40, 55},
		{"low sentiment confidence", 0, 0, 50, 50, 45},
		{"rounded to one decimal", 4.0 / 6.0, 33, 50, 50, 68.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, confidence(tc.completeness, tc.sentConf, tc.financial, tc.sent))
		})
	}
}
