// Package report renders prediction results as the detailed text report
// written to disk and the short console summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"stock-predictor/internal/scoring"
	"stock-predictor/internal/types"
)

const separator = "==============================================="

// Report is everything a rendered analysis needs. It is a snapshot; nothing
// is recomputed while rendering.
type Report struct {
	ID          uuid.UUID
	Ticker      string
	GeneratedAt time.Time
	Financial   scoring.FinancialAssessment
	Sentiment   types.SentimentAssessment
	News        types.NewsBundle
	Overall     scoring.OverallAssessment
}

func New(ticker string, fa scoring.FinancialAssessment, sa types.SentimentAssessment, news types.NewsBundle, overall scoring.OverallAssessment) *Report {
	return &Report{
		ID:          uuid.New(),
		Ticker:      strings.ToUpper(ticker),
		GeneratedAt: time.Now(),
		Financial:   fa,
		Sentiment:   sa,
		News:        news,
		Overall:     overall,
	}
}

// Filename is the report's file name inside the output directory.
func (r *Report) Filename() string {
	return r.Ticker + "_analysis.txt"
}

// WriteFile writes the text report into dir, creating it if missing, and
// returns the path written.
func (r *Report) WriteFile(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, r.Filename())
	if err := os.WriteFile(path, []byte(r.Text()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Text renders the detailed report.
func (r *Report) Text() string {
	o := r.Overall
	var b strings.Builder

	fmt.Fprintf(&b, "STOCK ANALYSIS REPORT FOR %s\n", r.Ticker)
	fmt.Fprintf(&b, "Generated on: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Report ID: %s\n\n", r.ID)

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "RECOMMENDATION: %s\n", o.Recommendation.Display())
	fmt.Fprintf(&b, "OVERALL SCORE: %s/100\n", num(o.Score))
	fmt.Fprintf(&b, "CONFIDENCE: %.1f%%\n", o.Confidence)
	b.WriteString(separator + "\n\n")

	b.WriteString("EXECUTIVE SUMMARY:\n")
	b.WriteString(o.Reasoning + "\n\n")

	b.WriteString("DETAILED ANALYSIS:\n\n")
	fmt.Fprintf(&b, "FINANCIAL METRICS ANALYSIS (Weight: %.0f%%)\n", o.Breakdown.FinancialWeight*100)
	fmt.Fprintf(&b, "Overall Financial Score: %s/100\n", num(o.FinancialScore))
	fmt.Fprintf(&b, "Data Completeness: %.0f%%\n\n", r.Financial.Completeness()*100)

	b.WriteString("Individual Metric Scores:\n")
	for _, ind := range scoring.Indicators {
		r.writeIndicator(&b, r.Financial.Reading(ind))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "SENTIMENT ANALYSIS (Weight: %.0f%%)\n", o.Breakdown.SentimentWeight*100)
	fmt.Fprintf(&b, "Sentiment Score: %s/100\n", num(o.SentimentScore))
	fmt.Fprintf(&b, "Sentiment Label: %s\n", r.Sentiment.Label)
	fmt.Fprintf(&b, "Sentiment Confidence: %s%%\n", num(r.Sentiment.Confidence))
	if r.Sentiment.Provider != "" {
		source := r.Sentiment.Provider
		if r.Sentiment.Cached {
			source += " (cached)"
		}
		fmt.Fprintf(&b, "Sentiment Source: %s\n", source)
	}
	b.WriteString("\nSentiment Reasoning:\n")
	reasoning := r.Sentiment.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning available"
	}
	b.WriteString(reasoning + "\n\n")

	b.WriteString("News Sources Analyzed:\n")
	fmt.Fprintf(&b, "• FinViz Headlines: %d items\n", len(r.News.FinViz))
	fmt.Fprintf(&b, "• Yahoo Finance Articles: %d items\n", len(r.News.Yahoo))
	fmt.Fprintf(&b, "Total News Items: %d\n\n", len(r.News.FinViz)+len(r.News.Yahoo))

	bd := o.Breakdown
	b.WriteString("SCORE BREAKDOWN:\n")
	fmt.Fprintf(&b, "Financial Contribution: %s/%.0f (%.0f%% weight)\n", num(bd.FinancialContribution), bd.FinancialWeight*100, bd.FinancialWeight*100)
	fmt.Fprintf(&b, "Sentiment Contribution: %s/%.0f (%.0f%% weight)\n", num(bd.SentimentContribution), bd.SentimentWeight*100, bd.SentimentWeight*100)
	fmt.Fprintf(&b, "Total Score: %s/100\n\n", num(o.Score))

	b.WriteString("INVESTMENT RECOMMENDATION:\n")
	b.WriteString(guidance(o.Recommendation))
	b.WriteString("\n")

	b.WriteString("RISK DISCLAIMER:\n")
	b.WriteString("This analysis is for informational purposes only and should not be considered as financial advice.\n")
	b.WriteString("Past performance does not guarantee future results. Always consult with a qualified financial\n")
	b.WriteString("advisor before making investment decisions.\n\n")
	fmt.Fprintf(&b, "Analysis Confidence: %.1f%%\n", o.Confidence)
	b.WriteString("Report generated using automated financial analysis tools.\n")

	return b.String()
}

func (r *Report) writeIndicator(b *strings.Builder, rd scoring.IndicatorReading) {
	switch {
	case !rd.Available():
		fmt.Fprintf(b, "• %s: N/A (insufficient data)\n\n", rd.Name().Label())
		return
	case rd.Defaulted():
		fmt.Fprintf(b, "• %s: %s/100 (not reported, neutral default)\n\n", rd.Name().Label(), num(rd.Score()))
		return
	}

	fmt.Fprintf(b, "• %s: %s/100\n", rd.Name().Label(), num(rd.Score()))
	d := func(key string) float64 {
		v, _ := rd.Detail(key)
		return v
	}
	switch rd.Name() {
	case scoring.MovingAverages:
		fmt.Fprintf(b, "  Current: $%.2f, MA20: $%.2f, MA50: $%.2f\n", d("current"), d("ma20"), d("ma50"))
	case scoring.Volume:
		fmt.Fprintf(b, "  Volume Ratio: %.2fx average\n", d("volume_ratio"))
	case scoring.Momentum:
		fmt.Fprintf(b, "  RSI: %.1f, MACD: %.3f\n", d("rsi"), d("macd_line"))
	case scoring.PERatio:
		fmt.Fprintf(b, "  P/E Ratio: %.2f\n", d("pe_ratio"))
	case scoring.ProfitMargins:
		fmt.Fprintf(b, "  Profit Margin: %.1f%%\n", d("profit_margin_pct"))
	case scoring.ReturnOnEquity:
		fmt.Fprintf(b, "  ROE: %.1f%%\n", d("roe_pct"))
	}
	b.WriteString("\n")
}

func guidance(rec scoring.Recommendation) string {
	var lead string
	var points []string
	switch {
	case rec.IsBuy():
		lead = "This stock shows positive investment potential. Consider the following:"
		points = []string{
			"Monitor key financial metrics for continued strength",
			"Watch for any changes in market sentiment",
			"Consider position sizing based on your risk tolerance",
			"Set appropriate stop-loss levels",
		}
	case rec == scoring.Hold:
		lead = "This stock shows mixed signals. Consider the following:"
		points = []string{
			"Monitor for clearer directional signals",
			"Review quarterly earnings for fundamental changes",
			"Watch market sentiment trends",
			"Consider reducing position if outlook deteriorates",
		}
	default:
		lead = "This stock shows concerning signals. Consider the following:"
		points = []string{
			"Review position size and risk exposure",
			"Monitor for any positive catalysts",
			"Consider reducing or closing position",
			"Look for better investment opportunities",
		}
	}

	var b strings.Builder
	b.WriteString(lead + "\n")
	for _, p := range points {
		b.WriteString("• " + p + "\n")
	}
	return b.String()
}

// num prints a score without trailing zeros: 74 rather than 74.00, 69.25 as is.
func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
