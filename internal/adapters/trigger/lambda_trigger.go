package trigger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mikey/slack-image-bot/internal/core"
	"github.com/mikey/slack-image-bot/internal/ports"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

var errInvalidEvent = errors.New("invalid lambda event")

// LambdaTrigger runs slash commands delivered as AWS Lambda invocations.
// The event is either the slash command fields as JSON or an API Gateway or
// function URL request carrying the form encoded payload.
type LambdaTrigger struct {
	runner        ports.CommandRunner
	logger        *zap.Logger
	signingSecret string
}

// proxyEvent holds the fields shared by API Gateway and function URL events
type proxyEvent struct {
	Body *string `json:"body"`
}

// NewLambdaTrigger creates a new Lambda trigger
func NewLambdaTrigger(runner ports.CommandRunner, logger *zap.Logger, signingSecret string) *LambdaTrigger {
	return &LambdaTrigger{
		runner:        runner,
		logger:        logger,
		signingSecret: signingSecret,
	}
}

// Start hands control to the Lambda runtime
func (t *LambdaTrigger) Start() error {
	t.logger.Info("Lambda trigger starting")

	go lambda.StartWithOptions(t.Handle,
		lambda.WithEnableSIGTERM(func() {
			t.logger.Info("Lambda runtime is shutting down")
		}))

	return nil
}

// Stop is a no-op, the runtime owns the invocation lifecycle
func (t *LambdaTrigger) Stop() error {
	return nil
}

// HandleCommand runs a single slash command
func (t *LambdaTrigger) HandleCommand(ctx context.Context, cmd core.SlashCommand) (*core.RunResult, error) {
	return runCommand(ctx, t.runner, t.logger, cmd)
}

// Handle is the Lambda handler. Run failures are not returned to the runtime
// because the user has been notified and a retried invocation would post
// the messages again.
//
// Proxied events are answered only after the whole run, which takes longer
// than the three seconds Slack waits for a slash command reply. Deployments
// receiving Slack requests directly need an asynchronous dispatcher in front
// that acknowledges the request and invokes this function with
// InvocationType Event.
func (t *LambdaTrigger) Handle(ctx context.Context, raw json.RawMessage) (any, error) {
	var probe proxyEvent
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidEvent, err)
	}

	if probe.Body == nil {
		var cmd core.SlashCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidEvent, err)
		}
		result, _ := t.HandleCommand(ctx, cmd)
		return result, nil
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidEvent, err)
	}

	cmd, status, err := t.parseProxyRequest(req)
	if err != nil {
		t.logger.Warn("Rejected proxied slash command", zap.Int("status", status), zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: status, Body: http.StatusText(status)}, nil
	}

	_, _ = t.HandleCommand(ctx, cmd)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func (t *LambdaTrigger) parseProxyRequest(req events.APIGatewayProxyRequest) (core.SlashCommand, int, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return core.SlashCommand{}, http.StatusBadRequest, fmt.Errorf("failed to decode body: %w", err)
		}
		body = decoded
	}

	if t.signingSecret != "" {
		header := http.Header{}
		for k, v := range req.Headers {
			header.Set(k, v)
		}
		verifier, err := slack.NewSecretsVerifier(header, t.signingSecret)
		if err != nil {
			return core.SlashCommand{}, http.StatusUnauthorized, err
		}
		if _, err := verifier.Write(body); err != nil {
			return core.SlashCommand{}, http.StatusUnauthorized, err
		}
		if err := verifier.Ensure(); err != nil {
			return core.SlashCommand{}, http.StatusUnauthorized, err
		}
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return core.SlashCommand{}, http.StatusBadRequest, fmt.Errorf("failed to parse form: %w", err)
	}
	return commandFromForm(values), http.StatusOK, nil
}
