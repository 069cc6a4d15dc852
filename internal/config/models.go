package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GalleryConfig represents the configuration for the image gallery API
type GalleryConfig struct {
	APIURL         string
	Timeout        time.Duration
	MaxCaptionSize int
}

// RetryConfig represents the retry policy for outbound HTTP requests
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	StatusCodes     []int
}

// CacheConfig represents the configuration for the posted image cache
type CacheConfig struct {
	Type       string
	Table      string
	Region     string
	SQLitePath string
	MySQLDSN   string
}

// SlackConfig represents the configuration for the Slack API notifier
type SlackConfig struct {
	BotToken       string
	ContentChannel string
	AdminChannel   string
	UploadDelay    time.Duration
}

// WebhookConfig represents the configuration for the incoming webhook notifier
type WebhookConfig struct {
	ContentURL string
	AdminURL   string
	PostDelay  time.Duration
}

// ServerConfig represents the configuration for the command trigger
type ServerConfig struct {
	Trigger       string
	ListenAddress string
	SigningSecret string
}

// GetGallery returns the gallery configuration
func (c *Config) GetGallery() (GalleryConfig, error) {
	timeout, err := c.GetDuration("gallery.timeout")
	if err != nil {
		return GalleryConfig{}, fmt.Errorf("invalid gallery timeout: %w", err)
	}

	apiURL := c.GetString("gallery.api_url")
	if apiURL != "" && !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	return GalleryConfig{
		APIURL:         apiURL,
		Timeout:        timeout,
		MaxCaptionSize: c.GetInt("gallery.max_caption_size"),
	}, nil
}

// GetRetry returns the retry configuration
func (c *Config) GetRetry() (RetryConfig, error) {
	initial, err := c.GetDuration("retry.initial_interval")
	if err != nil {
		return RetryConfig{}, fmt.Errorf("invalid retry initial interval: %w", err)
	}
	maxInterval, err := c.GetDuration("retry.max_interval")
	if err != nil {
		return RetryConfig{}, fmt.Errorf("invalid retry max interval: %w", err)
	}

	var codes []int
	for _, s := range c.GetStringSlice("retry.status_codes") {
		code, err := strconv.Atoi(s)
		if err != nil {
			return RetryConfig{}, fmt.Errorf("invalid retry status code %q: %w", s, err)
		}
		codes = append(codes, code)
	}

	maxRetries := c.GetInt("retry.max_retries")
	if maxRetries < 0 {
		maxRetries = 0
	}

	return RetryConfig{
		MaxRetries:      uint64(maxRetries),
		InitialInterval: initial,
		MaxInterval:     maxInterval,
		Multiplier:      c.GetFloat64("retry.multiplier"),
		StatusCodes:     codes,
	}, nil
}

// GetAuthorizedUsers returns the allow-listed user ids.
// A JSON array is accepted as well, matching the AUTHORIZED_USERS format of
// older deployments.
func (c *Config) GetAuthorizedUsers() []string {
	raw := strings.TrimSpace(c.GetString("auth.authorized_users"))
	if strings.HasPrefix(raw, "[") {
		var users []string
		if err := json.Unmarshal([]byte(raw), &users); err == nil {
			return users
		}
	}
	return c.GetStringSlice("auth.authorized_users")
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Type:       c.GetString("cache.type"),
		Table:      c.GetString("cache.table"),
		Region:     c.GetString("cache.region"),
		SQLitePath: c.GetString("cache.sqlite_path"),
		MySQLDSN:   c.GetString("cache.mysql_dsn"),
	}
}

// GetSlack returns the Slack API configuration
func (c *Config) GetSlack() (SlackConfig, error) {
	delay, err := c.GetDuration("slack.upload_delay")
	if err != nil {
		return SlackConfig{}, fmt.Errorf("invalid slack upload delay: %w", err)
	}

	return SlackConfig{
		BotToken:       c.GetString("slack.bot_token"),
		ContentChannel: c.GetString("slack.content_channel"),
		AdminChannel:   c.GetString("slack.admin_channel"),
		UploadDelay:    delay,
	}, nil
}

// GetWebhook returns the incoming webhook configuration
func (c *Config) GetWebhook() (WebhookConfig, error) {
	delay, err := c.GetDuration("webhook.post_delay")
	if err != nil {
		return WebhookConfig{}, fmt.Errorf("invalid webhook post delay: %w", err)
	}

	return WebhookConfig{
		ContentURL: c.GetString("webhook.content_url"),
		AdminURL:   c.GetString("webhook.admin_url"),
		PostDelay:  delay,
	}, nil
}

// GetServer returns the trigger configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Trigger:       c.GetString("server.trigger"),
		ListenAddress: c.GetString("server.listen_address"),
		SigningSecret: c.GetString("server.signing_secret"),
	}
}

// Validate checks that the settings required by the selected variants are present
func (c *Config) Validate() error {
	var errs []error

	if c.GetString("gallery.api_url") == "" {
		errs = append(errs, errors.New("gallery.api_url is required"))
	}

	switch c.GetString("notifier.type") {
	case "slack":
		for _, key := range []string{"slack.bot_token", "slack.content_channel", "slack.admin_channel"} {
			if c.GetString(key) == "" {
				errs = append(errs, fmt.Errorf("%s is required for the slack notifier", key))
			}
		}
	case "webhook":
		for _, key := range []string{"webhook.content_url", "webhook.admin_url"} {
			if c.GetString(key) == "" {
				errs = append(errs, fmt.Errorf("%s is required for the webhook notifier", key))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported notifier type: %s", c.GetString("notifier.type")))
	}

	switch c.GetString("cache.type") {
	case "dynamodb", "sqlite", "mysql", "memory":
	default:
		errs = append(errs, fmt.Errorf("unsupported cache type: %s", c.GetString("cache.type")))
	}

	return errors.Join(errs...)
}
