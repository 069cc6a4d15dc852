// Package retry provides an HTTP transport that retries transient failures
// with capped exponential backoff.
package retry

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Config describes the retry policy
type Config struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	StatusCodes     []int
}

// DefaultConfig returns the policy used for the gallery API
func DefaultConfig() Config {
	return Config{
		MaxRetries:      10,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     120 * time.Second,
		Multiplier:      2,
		StatusCodes:     []int{http.StatusBadRequest, http.StatusTooManyRequests},
	}
}

// Transport retries requests that fail with a transport error or a
// configured status code. A Retry-After header replaces the computed wait.
// When retries are exhausted the last response is returned unchanged.
type Transport struct {
	base   http.RoundTripper
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewTransport wraps base with the retry policy
func NewTransport(base http.RoundTripper, cfg Config, logger *zap.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{
		base:   base,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// NewClient creates an HTTP client using the retry policy. The timeout
// bounds the wait for response headers of each attempt.
func NewClient(cfg Config, timeout time.Duration, logger *zap.Logger) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.ResponseHeaderTimeout = timeout

	return &http.Client{Transport: NewTransport(base, cfg, logger)}
}

// statusError marks a response whose status should be retried
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.code)
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		// The body cannot be replayed
		return t.base.RoundTrip(req)
	}

	policy := &retryAfterBackOff{BackOff: t.exponential(), max: t.cfg.MaxInterval}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, t.cfg.MaxRetries), req.Context())

	var resp *http.Response
	attempt := 0

	operation := func() error {
		if resp != nil {
			drain(resp)
			resp = nil
		}
		attempt++
		policy.hint = 0

		attemptReq, err := rewind(req, attempt)
		if err != nil {
			return backoff.Permanent(err)
		}

		r, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			if req.Context().Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}

		resp = r
		if !slices.Contains(t.cfg.StatusCodes, r.StatusCode) {
			return nil
		}
		policy.hint = RetryAfter(r.Header, t.now())
		return &statusError{code: r.StatusCode}
	}

	notify := func(err error, wait time.Duration) {
		t.logger.Warn("Request failed, retrying",
			zap.String("method", req.Method),
			zap.String("host", req.URL.Host),
			zap.String("path", req.URL.Path),
			zap.Int("attempt", attempt),
			zap.Error(err),
			zap.Duration("next_attempt_in", wait))
	}

	err := backoff.RetryNotify(operation, b, notify)

	var retryable *statusError
	if err == nil || (errors.As(err, &retryable) && resp != nil) {
		return resp, nil
	}
	if resp != nil {
		drain(resp)
	}
	return nil, err
}

func (t *Transport) exponential() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = t.cfg.InitialInterval
	bo.MaxInterval = t.cfg.MaxInterval
	bo.Multiplier = t.cfg.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// retryAfterBackOff prefers a server supplied wait over the computed one
type retryAfterBackOff struct {
	backoff.BackOff
	hint time.Duration
	max  time.Duration
}

// NextBackOff implements backoff.BackOff
func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop || b.hint <= 0 {
		return next
	}

	next, b.hint = b.hint, 0
	if b.max > 0 && next > b.max {
		next = b.max
	}
	return next
}

// Reset implements backoff.BackOff
func (b *retryAfterBackOff) Reset() {
	b.hint = 0
	b.BackOff.Reset()
}

// RetryAfter parses a Retry-After header given in seconds or as an HTTP date.
// It returns zero when the header is absent or unusable.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if wait := at.Sub(now); wait > 0 {
			return wait
		}
	}
	return 0
}

// rewind returns a request that can be sent for the given attempt
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rewind request body: %w", err)
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

// drain discards and closes a response body so the connection can be reused
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
