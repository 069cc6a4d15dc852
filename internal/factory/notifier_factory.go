package factory

import (
	"fmt"
	"net/http"

	"github.com/mikey/slack-image-bot/internal/adapters/notifier"
	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// NotifierFactory creates notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration. Images are
// downloaded through fetcher. Messages are sent once with a plain client,
// only gallery requests are retried.
func (f *NotifierFactory) CreateNotifier(fetcher core.ImageFetcher) (core.Notifier, error) {
	notifierType := f.cfg.GetString("notifier.type")
	logger := f.logger.Named("notifier")

	galleryCfg, err := f.cfg.GetGallery()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: galleryCfg.Timeout}

	switch notifierType {
	case "slack":
		slackCfg, err := f.cfg.GetSlack()
		if err != nil {
			return nil, err
		}
		if slackCfg.BotToken == "" {
			return nil, fmt.Errorf("slack.bot_token is required for the slack notifier")
		}

		api := slack.New(slackCfg.BotToken, slack.OptionHTTPClient(httpClient))

		return notifier.NewSlackNotifier(
			api,
			fetcher,
			slackCfg.ContentChannel,
			slackCfg.AdminChannel,
			slackCfg.UploadDelay,
			logger,
		), nil
	case "webhook":
		webhookCfg, err := f.cfg.GetWebhook()
		if err != nil {
			return nil, err
		}

		return notifier.NewWebhookNotifier(
			httpClient,
			fetcher,
			webhookCfg.ContentURL,
			webhookCfg.AdminURL,
			webhookCfg.PostDelay,
			logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifierType)
	}
}
