package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/prompt"
	"github.com/mikey/legitim/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GenerateContentAPI is the part of a Gemini model the classifier needs
type GenerateContentAPI interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Classifier is an implementation of the Classifier port using Google Gemini
type Classifier struct {
	client        *genai.Client
	model         GenerateContentAPI
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifier creates a new Gemini classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Classifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &Classifier{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify asks Gemini for a verdict
func (c *Classifier) Classify(ctx context.Context, email *core.Email) (*core.AnalysisResult, error) {
	body := c.textProcessor.ProcessText(email.Body, c.maxBodySize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt.Build(email, body)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	verdict, err := prompt.ParseVerdict(sb.String())
	if err != nil {
		c.logger.Debug("Unparseable Gemini response", zap.Int("length", sb.Len()))
		return nil, err
	}

	return verdict.Result(c.modelName, ""), nil
}
