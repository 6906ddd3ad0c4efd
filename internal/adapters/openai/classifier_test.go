package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/utils"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClassifier(t *testing.T, handler http.HandlerFunc) *Classifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := goopenai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"

	logger := zap.NewNop()
	return NewClassifier(goopenai.NewClientWithConfig(cfg), "gpt-test", 500, 0.1, 0.9, 4096, logger, utils.NewTextProcessor(logger))
}

func completion(content string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		ID: "chatcmpl-1",
		Choices: []goopenai.ChatCompletionChoice{
			{Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestClassify(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	c := newTestClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"safe": true, "score": 97, "explanation": "Routine newsletter."}`))
	})

	result, err := c.Classify(context.Background(), &core.Email{From: "news@example.com", Body: "monthly update"})
	require.NoError(t, err)

	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[1].Content, "monthly update")
	assert.True(t, result.Safe)
	assert.Equal(t, 97, result.Score)
	assert.Equal(t, "chatcmpl-1", result.ProcessingID)
	assert.Len(t, result.Checks, 4)
}

func TestClassifyNoChoices(t *testing.T) {
	c := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{ID: "x"})
	})

	_, err := c.Classify(context.Background(), &core.Email{})
	assert.ErrorContains(t, err, "empty response")
}

func TestClassifyUpstreamError(t *testing.T) {
	c := newTestClassifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	})

	_, err := c.Classify(context.Background(), &core.Email{})
	assert.Error(t, err)
}
