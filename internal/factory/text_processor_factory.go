package factory

import (
	"github.com/mikey/legitim/internal/adapters/mailparse"
	"github.com/mikey/legitim/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates the text helpers shared by parsers and classifiers
type TextProcessorFactory struct {
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateParser creates the parser for pasted email content
func (f *TextProcessorFactory) CreateParser(textProcessor *utils.TextProcessor) *mailparse.Parser {
	return mailparse.NewParser(f.logger, textProcessor)
}
