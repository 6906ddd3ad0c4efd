package factory

import (
	"fmt"

	"github.com/mikey/legitim/internal/adapters/mock"
	"github.com/mikey/legitim/internal/config"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates the classifier selected by analysis.provider
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a classifier based on the configuration
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	analysisCfg, err := f.cfg.GetAnalysis()
	if err != nil {
		return nil, err
	}

	switch analysisCfg.Provider {
	case "mock", "":
		return f.createMock()
	case "bedrock":
		return f.createBedrock()
	case "gemini":
		return f.createGemini()
	case "openai":
		return f.createOpenAI()
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", analysisCfg.Provider)
	}
}

func (f *ClassifierFactory) createMock() (core.Classifier, error) {
	mockCfg, err := f.cfg.GetMock()
	if err != nil {
		return nil, fmt.Errorf("invalid mock configuration: %w", err)
	}
	return mock.NewClassifier(mockCfg.Delay, mockCfg.Score, f.logger), nil
}
