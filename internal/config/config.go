package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/image-bot/")
	v.AddConfigPath("$HOME/.image-bot")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("IMAGE_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config file
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvPrefix("IMAGE_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Gallery API defaults
	v.SetDefault("gallery.api_url", "")
	v.SetDefault("gallery.timeout", "30s")
	v.SetDefault("gallery.max_caption_size", 3000)

	// Retry defaults
	v.SetDefault("retry.max_retries", 10)
	v.SetDefault("retry.initial_interval", "200ms")
	v.SetDefault("retry.max_interval", "120s")
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.status_codes", []string{"400", "429"})

	// Authorization defaults
	v.SetDefault("auth.authorized_users", []string{})

	// Cache defaults
	v.SetDefault("cache.type", "dynamodb")
	v.SetDefault("cache.table", "image-bot-cache")
	v.SetDefault("cache.region", "eu-central-1")
	v.SetDefault("cache.sqlite_path", "/data/image_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/image_bot")

	// Notifier defaults
	v.SetDefault("notifier.type", "slack")

	// Slack defaults
	v.SetDefault("slack.bot_token", "")
	v.SetDefault("slack.content_channel", "")
	v.SetDefault("slack.admin_channel", "")
	v.SetDefault("slack.upload_delay", "3s")

	// Webhook defaults
	v.SetDefault("webhook.content_url", "")
	v.SetDefault("webhook.admin_url", "")
	v.SetDefault("webhook.post_delay", "1s")

	// Server defaults
	v.SetDefault("server.trigger", "lambda")
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.signing_secret", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetStringSlice gets a string slice value from the configuration.
// Comma separated strings, as set through the environment, are split.
func (c *Config) GetStringSlice(key string) []string {
	var values []string
	for _, item := range c.v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
