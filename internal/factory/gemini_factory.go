package factory

import (
	"errors"

	"github.com/mikey/legitim/internal/adapters/gemini"
	"github.com/mikey/legitim/internal/core"
)

func (f *ClassifierFactory) createGemini() (core.Classifier, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	return gemini.NewClassifier(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	)
}
