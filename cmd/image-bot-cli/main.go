package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/di"
	"github.com/mikey/slack-image-bot/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	if flags.User == "" {
		fmt.Fprintln(os.Stderr, "usage: image-bot-cli -user <slack user id> [-command /get-week|/get-month] [number [year]]")
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the command
	if err := container.Invoke(func(
		cfg *config.Config,
		logger *zap.Logger,
		trigger ports.CommandTrigger,
		cacheStore ports.CacheStore,
	) error {
		defer logger.Sync()
		defer cacheStore.Stop()

		if err := cfg.Validate(); err != nil {
			logger.Error("Invalid configuration", zap.Error(err))
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, err := trigger.HandleCommand(ctx, flags.SlashCommand(cfg))
		return err
	}); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
