package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// retry sends req up to Retry.MaxAttempts times. Transient network errors
// and 5xx replies are retried with exponential backoff; a 5xx on the last
// attempt comes back as a response. Once a retry has happened, a final
// error wraps ErrMaxRetriesExceeded.
func (c *Client) retry(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	maxAttempts := c.cfg.Retry.MaxAttempts
	attempt := 0

	op := func() (*http.Response, error) {
		attempt++

		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			if !isRetryableError(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < maxAttempts {
			if closeErr := resp.Body.Close(); closeErr != nil {
				logger.Debug("failed to close response body", slog.Any("error", closeErr))
			}
			return nil, fmt.Errorf("server error: %d", resp.StatusCode)
		}

		return resp, nil
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(maxAttempts)), //nolint:gosec // validated positive
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debug("retrying request",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", next),
				slog.Any("cause", err),
			)
		}),
	)
	if err == nil {
		return resp, nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}

	if attempt > 1 && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	return nil, err
}

// newBackOff returns a fresh schedule: InitialInterval growing by Multiplier
// up to MaxInterval, each wait jittered by JitterFactor.
func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.Retry.InitialInterval
	b.MaxInterval = c.cfg.Retry.MaxInterval
	b.RandomizationFactor = c.cfg.Retry.JitterFactor

	if c.cfg.Retry.Multiplier > 1 {
		b.Multiplier = c.cfg.Retry.Multiplier
	}

	b.Reset()

	return b
}

// classifyOutcome maps a finished request onto the breaker's view of upstream
// health. Once the caller's context is done, canceled or past its deadline,
// the failure is the caller's and says nothing about the upstream. Only the
// per-attempt client timeout counts as a slow upstream.
func classifyOutcome(ctx context.Context, resp *http.Response, err error) Outcome {
	switch {
	case err == nil && resp.StatusCode >= http.StatusInternalServerError:
		return OutcomeFailure
	case err == nil:
		return OutcomeSuccess
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return OutcomeIgnored
	default:
		return OutcomeFailure
	}
}

// isRetryableError reports whether err is a transient network failure.
// Context errors are never retried.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
