package notifier

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// newPacer returns a limiter that lets one content post through per interval.
// Posts are spaced at least interval apart; a post after an idle interval,
// including the first one, is not delayed.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// pace blocks until the next content post may be sent
func pace(ctx context.Context, limiter *rate.Limiter) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("content post cancelled: %w", err)
	}
	return nil
}
