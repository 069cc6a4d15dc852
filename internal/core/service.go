package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// BotService is the core service that posts new gallery images
type BotService struct {
	gallery    GalleryClient
	cache      CacheRepository
	notifier   Notifier
	authorizer Authorizer
	logger     *zap.Logger
	now        func() time.Time
}

// NewBotService creates a new bot service
func NewBotService(
	gallery GalleryClient,
	cache CacheRepository,
	notifier Notifier,
	authorizer Authorizer,
	logger *zap.Logger,
) *BotService {
	return &BotService{
		gallery:    gallery,
		cache:      cache,
		notifier:   notifier,
		authorizer: authorizer,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for default periods
func (s *BotService) WithClock(now func() time.Time) *BotService {
	s.now = now
	return s
}

// Run executes a slash command. Errors that abort the run are returned after
// the invoking user has been notified; per-image failures only skip the image.
func (s *BotService) Run(ctx context.Context, cmd SlashCommand) (*RunResult, error) {
	logger := s.logger.With(
		zap.String("user", cmd.UserID),
		zap.String("command", cmd.Command),
		zap.String("text", cmd.Text))

	if !s.authorizer.IsAuthorized(cmd.UserID) {
		logger.Warn("Rejected command from unauthorized user")
		s.notifier.SendPrivate(ctx, Invocation{
			UserID:      cmd.UserID,
			ChannelID:   cmd.ChannelID,
			ResponseURL: cmd.ResponseURL,
			Command:     cmd.Command,
		}, MsgUnauthorized)
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, cmd.UserID)
	}

	inv, err := ParseInvocation(cmd, s.now())
	if err != nil {
		logger.Warn("Failed to parse command", zap.Error(err))
		if errors.Is(err, ErrUnknownCommand) {
			s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgUnknownCommand, cmd.Command))
		} else {
			s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgInvalidParameter, cmd.Text))
		}
		return nil, err
	}

	periodKey := inv.Period.Key()
	logger = logger.With(zap.String("period", periodKey))
	logger.Info("Processing command")

	files, err := s.gallery.ListImages(ctx, inv.Period)
	if err != nil {
		logger.Error("Failed to list images", zap.Error(err))
		s.reportListError(ctx, inv, err)
		return nil, err
	}

	record, err := s.loadRecord(ctx, periodKey)
	if err != nil {
		logger.Error("Failed to load cache", zap.Error(err))
		s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgCacheLoad, periodKey, err))
		return nil, err
	}

	result := &RunResult{
		Total:      len(files),
		Supplement: len(record.PostedIDs) > 0,
	}

	if record.IsFullyCached(files) {
		logger.Info("All images already posted", zap.Int("images", len(files)))
		s.notifier.SendPrivate(ctx, inv, MsgAllSent)
		result.AllCached = true
		return result, nil
	}

	s.notifier.SendHeader(ctx, HeaderMessage(inv.Period, result.Supplement))

	for _, filename := range files {
		if record.Contains(filename) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		if !s.postImage(ctx, logger, inv, filename) {
			result.Skipped++
			continue
		}

		record.Append(filename)
		result.Posted++
		s.persist(ctx, logger, inv, record)
	}

	// The final write also covers a cancelled context.
	s.persist(context.WithoutCancel(ctx), logger, inv, record)

	if err := ctx.Err(); err != nil {
		logger.Error("Command interrupted", zap.Error(err),
			zap.Int("posted", result.Posted), zap.Int("total", result.Total))
		return result, err
	}

	s.notifier.SendAdmin(ctx, SummaryMessage(result.Posted, result.Total))
	logger.Info("Command finished",
		zap.Int("posted", result.Posted),
		zap.Int("skipped", result.Skipped),
		zap.Int("total", result.Total))

	return result, nil
}

// loadRecord returns the cached record for a period key or a fresh one
func (s *BotService) loadRecord(ctx context.Context, periodKey string) (*CacheRecord, error) {
	record, err := s.cache.Get(ctx, periodKey)
	if errors.Is(err, ErrCacheMiss) {
		return NewCacheRecord(periodKey), nil
	}
	if err != nil {
		return nil, err
	}
	if record.PostedIDs == nil {
		record.PostedIDs = []string{}
	}
	return record, nil
}

// postImage fetches the metadata of an image and posts it
func (s *BotService) postImage(ctx context.Context, logger *zap.Logger, inv Invocation, filename string) bool {
	logger = logger.With(zap.String("filename", filename))

	meta, err := s.gallery.GetMetadata(ctx, inv.Period, filename)
	if err != nil {
		logger.Warn("Skipping image without usable metadata", zap.Error(err))
		body := err.Error()
		var metaErr *MetadataError
		if errors.As(err, &metaErr) {
			body = metaErr.Body
		}
		s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgMetadataDecode, filename, body))
		return false
	}

	author, title, message := ParseCaption(meta.Caption)
	logger.Debug("Sending image", zap.String("url", meta.URL), zap.String("message", message))

	err = s.notifier.SendContent(ctx, inv, ContentPost{
		ImageURL: meta.URL,
		Filename: filename,
		Author:   author,
		Title:    title,
	})
	if err != nil {
		logger.Warn("Skipping image that could not be posted", zap.Error(err))
		if errors.Is(err, ErrImageDownload) {
			s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgImageDownload, meta.URL, StatusCode(err)))
		} else {
			s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgSendError, err))
		}
		return false
	}

	return true
}

// persist overwrites the cache record; failures are reported but do not stop the run
func (s *BotService) persist(ctx context.Context, logger *zap.Logger, inv Invocation, record *CacheRecord) {
	if err := s.cache.Put(ctx, record); err != nil {
		logger.Error("Failed to update cache", zap.Error(err))
		s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgCachePersist, record.PeriodKey, err))
	}
}

// reportListError tells the invoking user why the image list is unavailable
func (s *BotService) reportListError(ctx context.Context, inv Invocation, err error) {
	status := StatusCode(err)
	if status == 0 {
		s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgListError, err))
		return
	}

	s.notifier.SendPrivate(ctx, inv, fmt.Sprintf(MsgListHTTPError, status))
	if status == http.StatusNotFound {
		s.notifier.SendPrivate(ctx, inv, FolderNotFoundMessage(inv.Period))
	}
}
