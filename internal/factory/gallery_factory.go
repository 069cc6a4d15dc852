package factory

import (
	"fmt"
	"net/http"

	"github.com/mikey/slack-image-bot/internal/adapters/gallery"
	"github.com/mikey/slack-image-bot/internal/config"
	"github.com/mikey/slack-image-bot/internal/retry"
	"github.com/mikey/slack-image-bot/internal/utils"
	"go.uber.org/zap"
)

// GalleryFactory creates the HTTP client and gallery client
type GalleryFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGalleryFactory creates a new gallery factory
func NewGalleryFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *GalleryFactory {
	return &GalleryFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateHTTPClient creates the retrying HTTP client shared by outbound requests
func (f *GalleryFactory) CreateHTTPClient() (*http.Client, error) {
	galleryCfg, err := f.cfg.GetGallery()
	if err != nil {
		return nil, err
	}
	retryCfg, err := f.cfg.GetRetry()
	if err != nil {
		return nil, err
	}

	return retry.NewClient(retry.Config{
		MaxRetries:      retryCfg.MaxRetries,
		InitialInterval: retryCfg.InitialInterval,
		MaxInterval:     retryCfg.MaxInterval,
		Multiplier:      retryCfg.Multiplier,
		StatusCodes:     retryCfg.StatusCodes,
	}, galleryCfg.Timeout, f.logger.Named("http")), nil
}

// CreateGalleryClient creates a gallery client using httpClient
func (f *GalleryFactory) CreateGalleryClient(httpClient *http.Client) (*gallery.Client, error) {
	galleryCfg, err := f.cfg.GetGallery()
	if err != nil {
		return nil, err
	}
	if galleryCfg.APIURL == "" {
		return nil, fmt.Errorf("gallery.api_url is required")
	}

	f.logger.Info("Using gallery API", zap.String("url", galleryCfg.APIURL))
	return gallery.NewClient(galleryCfg.APIURL, httpClient, f.textProcessor, f.logger.Named("gallery")), nil
}
