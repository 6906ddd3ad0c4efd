package factory

import (
	"fmt"

	"github.com/mikey/legitim/internal/adapters/intake"
	"github.com/mikey/legitim/internal/adapters/web"
	"github.com/mikey/legitim/internal/config"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/ports"
	"github.com/mikey/legitim/internal/site"
	"github.com/mikey/legitim/internal/tool"
	"go.uber.org/zap"
)

// IntakeFactory creates the front ends that feed the analysis service
type IntakeFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *core.AnalysisService
	forms    *tool.Registry
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, analyzer *core.AnalysisService, forms *tool.Registry) *IntakeFactory {
	return &IntakeFactory{
		cfg:      cfg,
		logger:   logger,
		analyzer: analyzer,
		forms:    forms,
	}
}

// CreateIntakes returns the web server and, when enabled, the SMTP filter
func (f *IntakeFactory) CreateIntakes() ([]ports.Intake, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	toolCfg, err := f.cfg.GetTool()
	if err != nil {
		return nil, fmt.Errorf("invalid tool configuration: %w", err)
	}

	content, err := site.Default()
	if err != nil {
		return nil, err
	}
	if name := f.cfg.GetString("site.name"); name != "" {
		content.Name = name
	}

	server, err := web.NewServer(f.analyzer, f.forms, content, f.logger, serverCfg, toolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create web server: %w", err)
	}
	intakes := []ports.Intake{server}

	smtpCfg := f.cfg.GetSMTP()
	if smtpCfg.Enabled {
		analysisCfg, err := f.cfg.GetAnalysis()
		if err != nil {
			return nil, err
		}
		intakes = append(intakes, intake.NewSMTPFilter(f.analyzer, f.logger, smtpCfg, analysisCfg.Timeout))
	}

	return intakes, nil
}
