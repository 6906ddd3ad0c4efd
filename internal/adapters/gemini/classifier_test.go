package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeModel struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if text, ok := p.(genai.Text); ok {
			f.prompt += string(text)
		}
	}
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, genai.Text(t))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func newClassifier(model GenerateContentAPI, maxBodySize int) *Classifier {
	logger := zap.NewNop()
	return &Classifier{
		model:         model,
		modelName:     "gemini-1.5-flash",
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: utils.NewTextProcessor(logger),
	}
}

func TestClassify(t *testing.T) {
	model := &fakeModel{resp: textResponse(
		`{"safe": false, "score": 21, "explanation": "Lookalike domain.", `,
		`"checks": [{"name": "Link Safety", "passed": false, "description": "paypa1.example"}]}`,
	)}

	email := &core.Email{From: "security@paypa1.example", Subject: "Verify now", Body: "Click http://paypa1.example/login"}
	result, err := newClassifier(model, 4096).Classify(context.Background(), email)
	require.NoError(t, err)

	assert.Contains(t, model.prompt, "security@paypa1.example")
	assert.Contains(t, model.prompt, "http://paypa1.example/login")
	assert.False(t, result.Safe)
	assert.Equal(t, 21, result.Score)
	assert.Equal(t, "Lookalike domain.", result.Explanation)
	assert.Equal(t, "gemini-1.5-flash", result.ModelUsed)
	require.Len(t, result.Checks, 4)
	assert.Equal(t, core.CheckLinks, result.Checks[3].Name)
	assert.Equal(t, "paypa1.example", result.Checks[3].Description)
}

func TestClassifyTruncatesBody(t *testing.T) {
	model := &fakeModel{resp: textResponse(`{"safe": true, "score": 90, "explanation": "ok", "checks": []}`)}

	_, err := newClassifier(model, 10).Classify(context.Background(), &core.Email{Body: "0123456789TAIL"})
	require.NoError(t, err)
	assert.Contains(t, model.prompt, "0123456789")
	assert.NotContains(t, model.prompt, "TAIL")
}

func TestClassifyToleratesProseAroundJSON(t *testing.T) {
	model := &fakeModel{resp: textResponse("Here is the verdict:\n```json\n{\"safe\": true, \"score\": 88, \"explanation\": \"fine\"}\n```")}

	result, err := newClassifier(model, 4096).Classify(context.Background(), &core.Email{Body: "hi"})
	require.NoError(t, err)
	assert.True(t, result.Safe)
	assert.Equal(t, 88, result.Score)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"upstream", &fakeModel{err: errors.New("quota exceeded")}},
		{"no candidates", &fakeModel{resp: &genai.GenerateContentResponse{}}},
		{"no content", &fakeModel{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}},
		{"not json", &fakeModel{resp: textResponse("I cannot help with that.")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newClassifier(tt.model, 4096).Classify(context.Background(), &core.Email{Body: "hi"})
			assert.Error(t, err)
			assert.Nil(t, result)
		})
	}
}
