package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"stock-predictor/internal/trace"
)

type ClaudeParams struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	BaseURL     string
}

// Claude calls the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	p      ClaudeParams
}

func NewClaude(p ClaudeParams) (*Claude, error) {
	if p.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY missing")
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 500
	}

	opts := []option.RequestOption{option.WithAPIKey(p.APIKey)}
	if p.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.BaseURL))
	}
	if p.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(p.Timeout))
	}
	return &Claude{client: anthropic.NewClient(opts...), p: p}, nil
}

func (c *Claude) Name() string { return "claude" }

func (c *Claude) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.p.Model),
		MaxTokens: int64(c.p.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.p.Temperature > 0 {
		params.Temperature = anthropic.Float(c.p.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("claude returned no text content")
	}
	return out.String(), nil
}
