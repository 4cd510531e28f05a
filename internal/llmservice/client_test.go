package llmservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodesk-chatbot/internal/config"
	"prodesk-chatbot/internal/models"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "llama-3.1-8b-instant",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "Prodesk builds software."}, "finish_reason": "stop"}
	]
}`

func newTestClient(t *testing.T, upstream http.HandlerFunc, timeoutSecs int) *Client {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client, err := NewClient(&config.LLMConfig{
		BaseURL:     srv.URL,
		Key:         "test-key",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.7,
		MaxTokens:   200,
		TimeoutSecs: timeoutSecs,
	})
	require.NoError(t, err)
	return client
}

func TestCompleteReturnsGeneratedText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	}, 5)

	answer, err := client.Complete(context.Background(), Request{
		System:  models.SystemPrompt,
		Context: "Prodesk offers software services",
		History: []models.SessionTurn{
			{Role: models.RoleUser, Text: "Hi"},
			{Role: models.RoleAssistant, Text: "Hello!"},
		},
		Query: "What do you build?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Prodesk builds software.", answer)
}

func TestCompleteNonSuccessStatusIsUpstreamUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}, 5)

	_, err := client.Complete(context.Background(), Request{Query: "anything"})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestCompleteTimesOutOnHangingUpstream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}, 1)

	start := time.Now()
	_, err := client.Complete(context.Background(), Request{Query: "anything"})
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Less(t, time.Since(start), 3*time.Second, "hard timeout must bound the call")
}
