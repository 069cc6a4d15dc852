package di

import (
	"context"
	"net/http"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/slack-image-bot/internal/adapters/gallery"
	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/factory"
	"github.com/mikey/slack-image-bot/internal/logging"
	"github.com/mikey/slack-image-bot/internal/ports"
	"github.com/mikey/slack-image-bot/internal/utils"
	"github.com/mikey/slack-image-bot/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	return container, nil
}

// provideServices registers everything built on top of configuration and logger
func provideServices(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewGalleryFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewTriggerFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register HTTP client
	if err := container.Provide(func(f *factory.GalleryFactory) (*http.Client, error) {
		return f.CreateHTTPClient()
	}); err != nil {
		return err
	}

	// Register gallery client and the ports it serves
	if err := container.Provide(func(f *factory.GalleryFactory, httpClient *http.Client) (*gallery.Client, error) {
		return f.CreateGalleryClient(httpClient)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(c *gallery.Client) core.GalleryClient { return c }); err != nil {
		return err
	}
	if err := container.Provide(func(c *gallery.Client) core.ImageFetcher { return c }); err != nil {
		return err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (ports.CacheStore, error) {
		return f.CreateCacheRepository(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(func(s ports.CacheStore) core.CacheRepository { return s }); err != nil {
		return err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory, fetcher core.ImageFetcher) (core.Notifier, error) {
		return f.CreateNotifier(fetcher)
	}); err != nil {
		return err
	}

	// Register allow-list checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.Authorizer {
		return whitelist.NewChecker(cfg.GetAuthorizedUsers(), logger)
	}); err != nil {
		return err
	}

	// Register bot service
	if err := container.Provide(core.NewBotService); err != nil {
		return err
	}
	if err := container.Provide(func(s *core.BotService) ports.CommandRunner { return s }); err != nil {
		return err
	}

	// Register command trigger
	if err := container.Provide(func(f *factory.TriggerFactory) (ports.CommandTrigger, error) {
		return f.CreateCommandTrigger()
	}); err != nil {
		return err
	}

	return nil
}
