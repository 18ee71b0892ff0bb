package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompletionServer(t *testing.T, handler func(req goopenai.ChatCompletionRequest) (int, string)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req goopenai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGenerateSendsSingleUserMessage(t *testing.T) {
	t.Parallel()

	server := newCompletionServer(t, func(req goopenai.ChatCompletionRequest) (int, string) {
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, goopenai.ChatMessageRoleUser, req.Messages[0].Role)
		assert.Equal(t, "explain recursion", req.Messages[0].Content)
		return http.StatusOK, `{"choices":[{"index":0,"message":{"role":"assistant","content":"A function calling itself."}}]}`
	})

	client := NewClient("test-key", "gpt-4o", server.URL+"/v1", time.Second)

	reply, err := client.Generate(context.Background(), "explain recursion")
	require.NoError(t, err)
	assert.Equal(t, "A function calling itself.", reply)
	assert.Equal(t, "openai:gpt-4o", client.Model())
}

func TestGenerateWrapsAPIError(t *testing.T) {
	t.Parallel()

	server := newCompletionServer(t, func(goopenai.ChatCompletionRequest) (int, string) {
		return http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`
	})

	_, err := NewClient("test-key", "gpt-4o", server.URL+"/v1", time.Second).Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorContains(t, err, "Incorrect API key provided")

	var apiErr *goopenai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
}

func TestGenerateRejectsEmptyChoices(t *testing.T) {
	t.Parallel()

	server := newCompletionServer(t, func(goopenai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, `{"choices":[]}`
	})

	_, err := NewClient("test-key", "", server.URL+"/v1", time.Second).Generate(context.Background(), "hi")
	require.ErrorIs(t, err, ErrEmptyResponse)
}
