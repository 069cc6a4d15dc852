package trigger

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/ports"
	"go.uber.org/zap"
)

// CliTrigger runs a single command from the command line and prints the result
type CliTrigger struct {
	runner ports.CommandRunner
	logger *zap.Logger
	out    io.Writer
}

// NewCliTrigger creates a new CLI trigger
func NewCliTrigger(runner ports.CommandRunner, logger *zap.Logger, out io.Writer) *CliTrigger {
	return &CliTrigger{
		runner: runner,
		logger: logger,
		out:    out,
	}
}

// HandleCommand runs the command and prints a summary
func (t *CliTrigger) HandleCommand(ctx context.Context, cmd core.SlashCommand) (*core.RunResult, error) {
	fmt.Fprintf(t.out, "\n=== Command ===\n")
	fmt.Fprintf(t.out, "User: %s\n", cmd.UserID)
	fmt.Fprintf(t.out, "Command: %s %s\n", cmd.Command, cmd.Text)

	startTime := time.Now()
	result, err := runCommand(ctx, t.runner, t.logger, cmd)
	duration := time.Since(startTime)

	fmt.Fprintf(t.out, "\n=== Results ===\n")
	if err != nil {
		fmt.Fprintf(t.out, "Error: %v\n", err)
	}
	if result != nil {
		fmt.Fprintf(t.out, "Images listed: %d\n", result.Total)
		fmt.Fprintf(t.out, "Images posted: %d\n", result.Posted)
		fmt.Fprintf(t.out, "Images skipped: %d\n", result.Skipped)
		fmt.Fprintf(t.out, "Supplement: %t\n", result.Supplement)
		fmt.Fprintf(t.out, "Already complete: %t\n", result.AllCached)
	}
	fmt.Fprintf(t.out, "Processing time: %v\n", duration.Round(time.Millisecond))

	return result, err
}

// Start is a no-op for the CLI trigger
func (t *CliTrigger) Start() error {
	return nil
}

// Stop is a no-op for the CLI trigger
func (t *CliTrigger) Stop() error {
	return nil
}
