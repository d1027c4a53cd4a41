package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama-3.1-70b-versatile",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "Bonjour le monde"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(OpenAIOptions{
		APIKey:  "test-key",
		BaseURL: server.URL + "/openai/v1/",
		Model:   "llama-3.1-70b-versatile",
	})
	require.NoError(t, err)
	return client
}

func TestCompleteSendsParameters(t *testing.T) {
	var body map[string]interface{}
	var path, auth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	})

	out, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "Translate the following text to French: Hello world",
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bonjour le monde", out)
	assert.Equal(t, "/openai/v1/chat/completions", path)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.1-70b-versatile", body["model"])
	assert.EqualValues(t, 1000, body["max_tokens"])
	assert.EqualValues(t, 0.3, body["temperature"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "Translate the following text to French: Hello world", msg["content"])
}

func TestCompleteDoesNotRetry(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached","type":"rate_limit_exceeded"}}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi", MaxTokens: 10})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "hi", MaxTokens: 10})
	assert.ErrorIs(t, err, ErrEmptyChoices)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIOptions{Model: "m"})
	assert.Error(t, err)

	_, err = NewOpenAIClient(OpenAIOptions{APIKey: "k"})
	assert.Error(t, err)
}

func TestStatusCodeNonAPIError(t *testing.T) {
	assert.Equal(t, 0, StatusCode(assert.AnError))
}
