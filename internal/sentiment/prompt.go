package sentiment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"stock-predictor/internal/types"
)

const promptTemplate = `Analyze the sentiment of the following financial news about %s stock and provide a sentiment score.

News Headlines and Articles:
%s

Please analyze this news and provide:
1. A sentiment score from 0-100 (0 = very negative, 50 = neutral, 100 = very positive)
2. A sentiment label (POSITIVE, NEGATIVE, or NEUTRAL)
3. A confidence score from 0-100 (how confident you are in your analysis)
4. Brief reasoning (2-3 sentences) explaining your sentiment assessment

Focus on:
- Overall tone and language used
- Financial implications mentioned
- Market outlook and analyst opinions
- Company performance indicators
- Future growth prospects

Respond in JSON format:
{
    "sentiment_score": <number>,
    "sentiment_label": "<POSITIVE/NEGATIVE/NEUTRAL>",
    "confidence": <number>,
    "reasoning": "<brief explanation>"
}`

// BuildPrompt renders the user message sent to the model.
func BuildPrompt(ticker, newsText string) string {
	return fmt.Sprintf(promptTemplate, strings.ToUpper(ticker), newsText)
}

// Fingerprint identifies a ticker's news set. Two bundles with the same
// headlines and summaries share a fingerprint regardless of order or
// scraped article bodies.
func Fingerprint(ticker string, bundle types.NewsBundle) string {
	items := bundle.Items()
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Headline+it.Summary)
	}
	sort.Strings(keys)

	h := md5.New()
	h.Write([]byte(strings.ToUpper(ticker)))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
	}
	return hex.EncodeToString(h.Sum(nil))
}
