package sentiment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"stock-predictor/internal/trace"
)

type OpenAIParams struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	BaseURL     string
}

// OpenAI calls the chat completions API.
type OpenAI struct {
	client *openai.Client
	p      OpenAIParams
}

func NewOpenAI(p OpenAIParams) (*OpenAI, error) {
	if p.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 500
	}

	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	if p.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: p.Timeout}
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), p: p}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.p.Model,
		MaxTokens:   o.p.MaxTokens,
		Temperature: float32(o.p.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
