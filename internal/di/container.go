package di

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/legitim/internal/config"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/factory"
	"github.com/mikey/legitim/internal/logging"
	"github.com/mikey/legitim/internal/ports"
	"github.com/mikey/legitim/internal/tool"
	"github.com/mikey/legitim/internal/utils"
	"github.com/mikey/legitim/internal/whitelist"
)

// BuildContainer creates the container for the server, reading configPath
// when set and the default search paths otherwise
func BuildContainer(configPath string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.NewFromFile(configPath)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	// Register tool form registry
	if err := container.Provide(func(analyzer tool.Analyzer, logger *zap.Logger, cfg *config.Config) (*tool.Registry, error) {
		toolCfg, err := cfg.GetTool()
		if err != nil {
			return nil, fmt.Errorf("invalid tool configuration: %w", err)
		}
		return tool.NewRegistry(analyzer, logger, toolCfg.SessionTTL), nil
	}); err != nil {
		return nil, err
	}

	// Register intakes
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.IntakeFactory) ([]ports.Intake, error) {
		return f.CreateIntakes()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideAnalysis registers everything between configuration and the
// analysis service. Both containers share it.
func provideAnalysis(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}

	// Register text processor and parser
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory, tp *utils.TextProcessor) core.EmailParser {
		return f.CreateParser(tp)
	}); err != nil {
		return err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return err
	}

	// Register trusted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetStringSlice("analysis.trusted_domains"), logger)
	}); err != nil {
		return err
	}

	// Register service options
	if err := container.Provide(func(cfg *config.Config) (core.ServiceOptions, error) {
		analysisCfg, err := cfg.GetAnalysis()
		if err != nil {
			return core.ServiceOptions{}, fmt.Errorf("invalid analysis configuration: %w", err)
		}
		cacheCfg, err := cfg.GetCache()
		if err != nil {
			return core.ServiceOptions{}, fmt.Errorf("invalid cache configuration: %w", err)
		}
		return core.ServiceOptions{
			CacheEnabled:    cacheCfg.Enabled,
			CacheTTL:        cacheCfg.TTL,
			Timeout:         analysisCfg.Timeout,
			MaxContentBytes: analysisCfg.MaxContentBytes,
		}, nil
	}); err != nil {
		return err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return err
	}
	if err := container.Provide(func(s *core.AnalysisService) tool.Analyzer {
		return s
	}); err != nil {
		return err
	}

	return nil
}
