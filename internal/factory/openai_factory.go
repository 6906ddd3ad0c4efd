package factory

import (
	"errors"

	"github.com/mikey/legitim/internal/adapters/openai"
	"github.com/mikey/legitim/internal/core"
	goopenai "github.com/sashabaranov/go-openai"
)

func (f *ClassifierFactory) createOpenAI() (core.Classifier, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	return openai.NewClassifier(
		goopenai.NewClient(openaiCfg.APIKey),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
