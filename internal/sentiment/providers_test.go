package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeComplete(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant",
			"model": "claude-3-haiku-20240307",
			"content": [{"type": "text", "text": "{\"sentiment_score\": 64}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c, err := NewClaude(ClaudeParams{APIKey: "test-key", Model: "claude-3-haiku-20240307", BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"sentiment_score": 64}`, reply)
	assert.Equal(t, "claude-3-haiku-20240307", got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestClaudeErrors(t *testing.T) {
	_, err := NewClaude(ClaudeParams{Model: "m"})
	assert.EqualError(t, err, "ANTHROPIC_API_KEY missing")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad model"}}`))
	}))
	defer srv.Close()

	c, err := NewClaude(ClaudeParams{APIKey: "k", Model: "nope", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude messages")
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model string `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  {\"sentiment_score\": 40}\n"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIParams{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	reply, err := o.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"sentiment_score": 40}`, reply)
}

func TestOpenAIErrors(t *testing.T) {
	_, err := NewOpenAI(OpenAIParams{Model: "m"})
	assert.EqualError(t, err, "OPENAI_API_KEY missing")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(OpenAIParams{APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	_, err = o.Complete(context.Background(), "hello")
	assert.EqualError(t, err, "no choices")
}
