package openai

import (
	"context"
	"fmt"

	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/prompt"
	"github.com/mikey/legitim/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Classifier is an implementation of the Classifier port using OpenAI
type Classifier struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifier creates a new OpenAI classifier
func NewClassifier(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	return &Classifier{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Classify asks the chat completion API for a verdict
func (c *Classifier) Classify(ctx context.Context, email *core.Email) (*core.AnalysisResult, error) {
	body := c.textProcessor.ProcessText(email.Body, c.maxBodySize)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SystemMessage,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.Build(email, body),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	verdict, err := prompt.ParseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Debug("Unparseable OpenAI response", zap.String("response_id", resp.ID))
		return nil, err
	}

	return verdict.Result(c.modelName, resp.ID), nil
}
