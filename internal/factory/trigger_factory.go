package factory

import (
	"fmt"
	"os"

	"github.com/mikey/slack-image-bot/internal/adapters/trigger"
	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/ports"
	"go.uber.org/zap"
)

// TriggerFactory creates command triggers based on configuration
type TriggerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	runner ports.CommandRunner
}

// NewTriggerFactory creates a new trigger factory
func NewTriggerFactory(cfg *config.Config, logger *zap.Logger, runner ports.CommandRunner) *TriggerFactory {
	return &TriggerFactory{
		cfg:    cfg,
		logger: logger,
		runner: runner,
	}
}

// CreateCommandTrigger creates a command trigger based on the configuration
func (f *TriggerFactory) CreateCommandTrigger() (ports.CommandTrigger, error) {
	serverCfg := f.cfg.GetServer()
	logger := f.logger.Named("trigger")

	switch serverCfg.Trigger {
	case "lambda":
		return trigger.NewLambdaTrigger(f.runner, logger, serverCfg.SigningSecret), nil
	case "http":
		return trigger.NewHTTPTrigger(f.runner, logger, serverCfg.ListenAddress, serverCfg.SigningSecret), nil
	case "cli":
		return trigger.NewCliTrigger(f.runner, logger, os.Stdout), nil
	default:
		return nil, fmt.Errorf("unsupported trigger type: %s", serverCfg.Trigger)
	}
}
