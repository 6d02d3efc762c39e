package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete_SendsPromptAndReturnsFirstChoice(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"question\":\"q\"}"}}]}`))
	})

	c := NewClient(srv.URL, "key", "openai/gpt-3.5-turbo", time.Second)
	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, `{"question":"q"}`, out)
	assert.Equal(t, "openai/gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
	assert.InDelta(t, 0.9, got.Temperature, 1e-6)
}

func TestComplete_NoChoicesIsEmpty(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	out, err := NewClient(srv.URL, "key", "m", time.Second).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComplete_APIErrorCarriesStatus(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	})

	_, err := NewClient(srv.URL, "key", "m", time.Second).Complete(context.Background(), "p")
	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatusCode)
	assert.Equal(t, "rate limited", apiErr.Message)
}

func TestComplete_Timeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	_, err := NewClient(srv.URL, "key", "m", 20*time.Millisecond).Complete(context.Background(), "p")
	assert.Error(t, err)
}
