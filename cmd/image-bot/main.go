package main

import (
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
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
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

	// Start the trigger
	if err := trigger.Start(); err != nil {
		logger.Error("Failed to start trigger", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the trigger, running commands save their progress first
	if err := trigger.Stop(); err != nil {
		logger.Error("Failed to stop trigger", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
