package di

import (
	"flag"
	"fmt"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Command flags
	User    string
	Command string
	Text    string
	Channel string

	// Override flags
	CacheType    string
	NotifierType string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct.
// Remaining arguments form the command text.
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Command flags
	flag.StringVar(&flags.User, "user", "", "Slack user id the command runs as")
	flag.StringVar(&flags.Command, "command", core.CommandWeek, "Slash command (/get-week, /get-month)")
	flag.StringVar(&flags.Channel, "channel", "", "Channel for private messages (defaults to the admin channel)")

	// Override flags
	flag.StringVar(&flags.CacheType, "cache", "", "Override cache type (dynamodb, sqlite, mysql, memory)")
	flag.StringVar(&flags.NotifierType, "notifier", "", "Override notifier type (slack, webhook)")

	// Output flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	flag.Parse()
	flags.Text = strings.Join(flag.Args(), " ")
	return flags
}

// SlashCommand returns the command described by the flags
func (f *CLIFlags) SlashCommand(cfg *config.Config) core.SlashCommand {
	channel := f.Channel
	if channel == "" {
		channel = cfg.GetString("slack.admin_channel")
	}

	return core.SlashCommand{
		UserID:    f.User,
		ChannelID: channel,
		Command:   f.Command,
		Text:      f.Text,
	}
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := loadCLIConfig(flags)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	return container, nil
}

// loadCLIConfig loads the configuration and applies the flag overrides
func loadCLIConfig(flags *CLIFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.ConfigFile != "" {
		cfg, err = config.NewFromFile(flags.ConfigFile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	v := cfg.GetViper()
	v.Set("server.trigger", "cli")
	if flags.CacheType != "" {
		v.Set("cache.type", flags.CacheType)
	}
	if flags.NotifierType != "" {
		v.Set("notifier.type", flags.NotifierType)
	}

	return cfg, nil
}
