package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stock-predictor/internal/scoring"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	buyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	holdStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	sellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

func recommendationStyle(rec scoring.Recommendation) lipgloss.Style {
	switch {
	case rec.IsBuy():
		return buyStyle
	case rec.IsSell():
		return sellStyle
	default:
		return holdStyle
	}
}

// Summary renders the console view of a result: headline numbers, the
// tier reasoning and, below lowConfidence, a warning.
func (r *Report) Summary(lowConfidence float64) string {
	o := r.Overall

	lines := []string{
		titleStyle.Render("ANALYSIS RESULTS: " + r.Ticker),
		"",
		"Recommendation: " + recommendationStyle(o.Recommendation).Render(o.Recommendation.Display()),
		fmt.Sprintf("Overall Score:  %s/100", num(o.Score)),
		fmt.Sprintf("Confidence:     %.1f%%", o.Confidence),
		fmt.Sprintf("Financial:      %s/100 (%.0f%% weight)", num(o.FinancialScore), o.Breakdown.FinancialWeight*100),
		fmt.Sprintf("Sentiment:      %s/100 (%.0f%% weight) %s", num(o.SentimentScore), o.Breakdown.SentimentWeight*100, r.Sentiment.Label),
		"",
		o.Reasoning,
	}

	var b strings.Builder
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if o.Confidence < lowConfidence {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("LOW CONFIDENCE WARNING:"))
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("  The analysis has lower confidence due to limited or conflicting data."))
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("  Consider additional research before making investment decisions."))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Report ID: %s", r.ID)))
	b.WriteString("\n")
	return b.String()
}
