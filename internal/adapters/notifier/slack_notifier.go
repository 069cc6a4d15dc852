package notifier

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SlackAPI is the subset of the Slack Web API client used by the notifier
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

var _ SlackAPI = (*slack.Client)(nil)

// SlackNotifier is an implementation of the Notifier interface using the Slack Web API.
// Images are uploaded as files so they stay visible after the gallery link expires.
type SlackNotifier struct {
	api            SlackAPI
	fetcher        core.ImageFetcher
	contentChannel string
	adminChannel   string
	pacer          *rate.Limiter
	logger         *zap.Logger
}

// NewSlackNotifier creates a new Slack Web API notifier
func NewSlackNotifier(
	api SlackAPI,
	fetcher core.ImageFetcher,
	contentChannel string,
	adminChannel string,
	uploadInterval time.Duration,
	logger *zap.Logger,
) *SlackNotifier {
	return &SlackNotifier{
		api:            api,
		fetcher:        fetcher,
		contentChannel: contentChannel,
		adminChannel:   adminChannel,
		pacer:          newPacer(uploadInterval),
		logger:         logger,
	}
}

// SendHeader posts the header message to the content channel
func (n *SlackNotifier) SendHeader(ctx context.Context, text string) {
	n.logger.Debug("Sending header message", zap.String("text", text))
	n.post(ctx, n.contentChannel, text)
}

// SendContent downloads the image and uploads it to the content channel
// with the author and title as comment
func (n *SlackNotifier) SendContent(ctx context.Context, inv core.Invocation, post core.ContentPost) error {
	if err := pace(ctx, n.pacer); err != nil {
		return err
	}

	data, err := n.fetcher.FetchImage(ctx, post.ImageURL)
	if err != nil {
		return err
	}

	filename := post.Filename
	if filename == "" {
		filename = "image.jpg"
	}

	summary, err := n.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Reader:         bytes.NewReader(data),
		FileSize:       len(data),
		Filename:       filename,
		InitialComment: post.Comment(),
		Channel:        n.contentChannel,
	})
	if err != nil {
		n.logger.Error("Failed to upload image",
			zap.String("filename", post.Filename),
			zap.String("channel", n.contentChannel),
			zap.Error(err))
		return fmt.Errorf("%w: %v", core.ErrMessagingDelivery, err)
	}

	n.logger.Debug("Uploaded image",
		zap.String("filename", post.Filename),
		zap.String("file_id", summary.ID),
		zap.Int("size", len(data)))
	return nil
}

// SendAdmin posts a message to the admin channel
func (n *SlackNotifier) SendAdmin(ctx context.Context, text string) {
	n.logger.Debug("Sending admin message", zap.String("text", text))
	n.post(ctx, n.adminChannel, text)
}

// SendPrivate posts an ephemeral message to the invoking user
func (n *SlackNotifier) SendPrivate(ctx context.Context, inv core.Invocation, text string) {
	n.logger.Debug("Sending private message",
		zap.String("user", inv.UserID),
		zap.String("text", text))

	channel := inv.ChannelID
	if channel == "" {
		channel = n.adminChannel
	}

	if _, err := n.api.PostEphemeralContext(ctx, channel, inv.UserID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	); err != nil {
		n.logger.Error("Failed to send private message",
			zap.String("user", inv.UserID),
			zap.String("channel", channel),
			zap.Error(err))
	}
}

func (n *SlackNotifier) post(ctx context.Context, channel, text string) {
	if _, _, err := n.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	); err != nil {
		n.logger.Error("Failed to send message",
			zap.String("channel", channel),
			zap.Error(err))
	}
}
