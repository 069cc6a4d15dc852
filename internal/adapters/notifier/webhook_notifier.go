package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const responseTypeEphemeral = "ephemeral"

// WebhookNotifier is an implementation of the Notifier interface using
// incoming webhooks. Images are linked in an image block instead of uploaded.
type WebhookNotifier struct {
	httpClient *http.Client
	fetcher    core.ImageFetcher
	contentURL string
	adminURL   string
	pacer      *rate.Limiter
	logger     *zap.Logger
}

// NewWebhookNotifier creates a new incoming webhook notifier
func NewWebhookNotifier(
	httpClient *http.Client,
	fetcher core.ImageFetcher,
	contentURL string,
	adminURL string,
	postInterval time.Duration,
	logger *zap.Logger,
) *WebhookNotifier {
	return &WebhookNotifier{
		httpClient: httpClient,
		fetcher:    fetcher,
		contentURL: contentURL,
		adminURL:   adminURL,
		pacer:      newPacer(postInterval),
		logger:     logger,
	}
}

// SendHeader posts the header message to the content webhook
func (n *WebhookNotifier) SendHeader(ctx context.Context, text string) {
	n.logger.Debug("Sending header message", zap.String("text", text))
	if err := n.post(ctx, n.contentURL, &slack.WebhookMessage{Text: text}); err != nil {
		n.logger.Error("Failed to send header message", zap.Error(err))
	}
}

// SendContent checks that the image can be downloaded and posts it as an
// image block with the author and title below
func (n *WebhookNotifier) SendContent(ctx context.Context, inv core.Invocation, post core.ContentPost) error {
	if err := pace(ctx, n.pacer); err != nil {
		return err
	}

	// Slack fetches the image itself, a broken link would only show up as an
	// empty block
	if _, err := n.fetcher.FetchImage(ctx, post.ImageURL); err != nil {
		return err
	}

	altText := post.Title
	if altText == "" {
		altText = post.Filename
	}
	comment := slack.NewTextBlockObject(slack.MarkdownType, post.Comment(), false, false)

	msg := &slack.WebhookMessage{
		Text: post.Comment(),
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewDividerBlock(),
				slack.NewImageBlock(post.ImageURL, altText, "", nil),
				slack.NewContextBlock("", comment),
			},
		},
	}

	if err := n.post(ctx, n.contentURL, msg); err != nil {
		n.logger.Error("Failed to post image",
			zap.String("filename", post.Filename),
			zap.Error(err))
		return fmt.Errorf("%w: %v", core.ErrMessagingDelivery, err)
	}

	n.logger.Debug("Posted image", zap.String("filename", post.Filename), zap.String("url", post.ImageURL))
	return nil
}

// SendAdmin posts a message to the admin webhook
func (n *WebhookNotifier) SendAdmin(ctx context.Context, text string) {
	n.logger.Debug("Sending admin message", zap.String("text", text))
	if err := n.post(ctx, n.adminURL, &slack.WebhookMessage{Text: text}); err != nil {
		n.logger.Error("Failed to send admin message", zap.Error(err))
	}
}

// SendPrivate answers through the response URL of the slash command. Without
// one the message goes to the admin webhook addressed to the user.
func (n *WebhookNotifier) SendPrivate(ctx context.Context, inv core.Invocation, text string) {
	n.logger.Debug("Sending private message",
		zap.String("user", inv.UserID),
		zap.String("text", text))

	var err error
	if inv.ResponseURL != "" {
		err = n.post(ctx, inv.ResponseURL, &slack.WebhookMessage{
			Text:         text,
			ResponseType: responseTypeEphemeral,
		})
	} else {
		err = n.post(ctx, n.adminURL, &slack.WebhookMessage{
			Text: fmt.Sprintf("<@%s> %s", inv.UserID, text),
		})
	}
	if err != nil {
		n.logger.Error("Failed to send private message",
			zap.String("user", inv.UserID),
			zap.Error(err))
	}
}

func (n *WebhookNotifier) post(ctx context.Context, url string, msg *slack.WebhookMessage) error {
	return slack.PostWebhookCustomHTTPContext(ctx, url, n.httpClient, msg)
}
