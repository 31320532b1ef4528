package resilient

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// withRetry runs fn up to maxAttempts times with exponential backoff and
// ±25% jitter between attempts. Only infrastructure errors are retried.
func (s *Store[S]) withRetry(ctx context.Context, op string, fn func() error) error {
	if s.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("resilient: maxAttempts must be >= 1, got %d", s.retryCfg.maxAttempts)
	}

	var lastErr error

	for attempt := range s.retryCfg.maxAttempts {
		if attempt > 0 {
			if err := s.waitForRetry(ctx, op, attempt, lastErr); err != nil {
				return err
			}
		}

		lastErr = fn()
		if !isRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

// waitForRetry logs the retry attempt at WARN level and waits for the
// backoff delay or context cancellation.
func (s *Store[S]) waitForRetry(ctx context.Context, op string, attempt int, lastErr error) error {
	delay := backoff(attempt, s.retryCfg)

	logger := logging.FromContext(ctx)
	logger.WarnContext(ctx, "retrying store call",
		slog.String("operation", "store."+op),
		slog.String("store", s.name),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", s.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff calculates the delay for a given retry attempt. The attempt
// parameter is 1-indexed (attempt 1 is the first retry).
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))

	if delay > float64(cfg.maxInterval) {
		delay = float64(cfg.maxInterval)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

// isRetryable reports whether a store error is worth another attempt.
// Context errors and domain outcomes are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return false
	}
	return true
}
