package trigger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/ports"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const (
	commandsPath    = "/slack/commands"
	healthPath      = "/healthz"
	shutdownTimeout = 10 * time.Second
)

// HTTPTrigger receives slash commands directly from Slack. Commands are
// acknowledged immediately and run in the background.
type HTTPTrigger struct {
	runner        ports.CommandRunner
	logger        *zap.Logger
	listenAddr    string
	signingSecret string
	echo          *echo.Echo
	serving       sync.WaitGroup
	runs          sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewHTTPTrigger creates a new HTTP trigger. Requests are only verified when
// a signing secret is configured.
func NewHTTPTrigger(runner ports.CommandRunner, logger *zap.Logger, listenAddr, signingSecret string) *HTTPTrigger {
	if signingSecret == "" {
		logger.Warn("No signing secret configured, slash command requests are not verified")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &HTTPTrigger{
		runner:        runner,
		logger:        logger,
		listenAddr:    listenAddr,
		signingSecret: signingSecret,
		ctx:           ctx,
		cancel:        cancel,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	e.POST(commandsPath, t.handleCommand)
	e.GET(healthPath, t.handleHealth)

	t.echo = e
	return t
}

// Handler returns the HTTP handler serving the trigger routes
func (t *HTTPTrigger) Handler() http.Handler {
	return t.echo
}

// Start starts the HTTP server
func (t *HTTPTrigger) Start() error {
	ln, err := net.Listen("tcp", t.listenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", t.listenAddr, err)
	}
	t.echo.Listener = ln

	t.logger.Info("HTTP trigger starting", zap.String("address", ln.Addr().String()))

	t.serving.Add(1)
	go func() {
		defer t.serving.Done()
		if err := t.echo.StartServer(t.echo.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the HTTP server, cancels running commands and waits for them
// to save their progress
func (t *HTTPTrigger) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := t.echo.Shutdown(ctx)
	t.serving.Wait()
	t.cancel()
	t.runs.Wait()

	if err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	return nil
}

// HandleCommand runs a single slash command
func (t *HTTPTrigger) HandleCommand(ctx context.Context, cmd core.SlashCommand) (*core.RunResult, error) {
	return runCommand(ctx, t.runner, t.logger, cmd)
}

func (t *HTTPTrigger) handleCommand(c echo.Context) error {
	r := c.Request()
	r.Body = http.MaxBytesReader(c.Response(), r.Body, maxBodyBytes)

	var verifier slack.SecretsVerifier
	if t.signingSecret != "" {
		var err error
		verifier, err = slack.NewSecretsVerifier(r.Header, t.signingSecret)
		if err != nil {
			t.logger.Warn("Rejected unsigned request", zap.String("remote", c.RealIP()), zap.Error(err))
			return c.String(http.StatusUnauthorized, "invalid signature")
		}
		r.Body = io.NopCloser(io.TeeReader(r.Body, &verifier))
	}

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		t.logger.Warn("Failed to parse slash command", zap.Error(err))
		return c.String(http.StatusBadRequest, "invalid command")
	}

	if t.signingSecret != "" {
		if err := verifier.Ensure(); err != nil {
			t.logger.Warn("Rejected request with invalid signature", zap.String("remote", c.RealIP()), zap.Error(err))
			return c.String(http.StatusUnauthorized, "invalid signature")
		}
	}

	cmd := commandFromSlash(s)

	t.runs.Add(1)
	go func() {
		defer t.runs.Done()
		_, _ = t.HandleCommand(t.ctx, cmd)
	}()

	// Slack expects an answer within three seconds, progress is reported
	// through the notifier
	return c.NoContent(http.StatusOK)
}

func (t *HTTPTrigger) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// runCommand executes a command and logs its outcome
func runCommand(ctx context.Context, runner ports.CommandRunner, logger *zap.Logger, cmd core.SlashCommand) (*core.RunResult, error) {
	start := time.Now()
	logger.Info("Received command",
		zap.String("user", cmd.UserID),
		zap.String("channel", cmd.ChannelID),
		zap.String("command", cmd.Command),
		zap.String("text", cmd.Text))

	result, err := runner.Run(ctx, cmd)
	if err != nil {
		logger.Warn("Command aborted",
			zap.String("command", cmd.Command),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return result, err
	}

	logger.Info("Command completed",
		zap.String("command", cmd.Command),
		zap.Int("posted", result.Posted),
		zap.Int("total", result.Total),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}
