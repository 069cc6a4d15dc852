package ports

import (
	"context"

	"github.com/mikey/slack-image-bot/internal/core"
)

// CommandTrigger defines the interface for the ways a slash command reaches the bot
type CommandTrigger interface {
	// HandleCommand runs a single slash command and returns the run result
	HandleCommand(ctx context.Context, cmd core.SlashCommand) (*core.RunResult, error)

	// Start starts accepting commands
	Start() error

	// Stop stops accepting commands and waits for running ones
	Stop() error
}

// CommandRunner executes slash commands
type CommandRunner interface {
	Run(ctx context.Context, cmd core.SlashCommand) (*core.RunResult, error)
}
