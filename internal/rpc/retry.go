package rpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/goran-ethernal/ChainExporter/pkg/config"
)

// transientMarkers are substrings of node and proxy errors worth another attempt.
var transientMarkers = []string{
	"timeout",
	"deadline exceeded",
	"429",
	"too many requests",
	"rate limit",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"header not found",
}

// retryableError checks if an error should trigger a retry.
// Context cancellation and a dropped connection are never retried: the first
// means the caller gave up, the second is handled by reconnecting.
func retryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || IsConnectionError(err) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(errStr, marker) {
			return true
		}
	}

	return false
}

// calculateBackoff computes the backoff duration for a given attempt with jitter.
func calculateBackoff(attempt int, cfg *config.RetryConfig) time.Duration {
	if attempt <= 1 {
		return 0
	}

	backoff := float64(cfg.InitialBackoff.Duration) * math.Pow(cfg.BackoffMultiplier, float64(attempt-2))
	if backoff > float64(cfg.MaxBackoff.Duration) {
		backoff = float64(cfg.MaxBackoff.Duration)
	}

	// ±25% jitter
	jitterRange := backoff * 0.25
	backoff += (rand.Float64() * 2 * jitterRange) - jitterRange //nolint:gosec

	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// retryWithBackoff executes a function with exponential backoff retry logic.
// It respects context cancellation and deadlines.
func retryWithBackoff(ctx context.Context, cfg *config.RetryConfig, operation string, fn func() error) error {
	if cfg == nil || cfg.MaxAttempts <= 1 {
		return fn()
	}

	var lastErr error
	startTime := time.Now()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled before attempt %d: %w", attempt, err)
		}

		if backoff := calculateBackoff(attempt, cfg); backoff > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff (attempt %d/%d): %w",
					attempt, cfg.MaxAttempts, ctx.Err())
			}
			RPCRetryInc(operation)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryableError(err) {
			return err
		}
	}

	return fmt.Errorf("%s: all %d attempts failed after %v (last error: %w)",
		operation, cfg.MaxAttempts, time.Since(startTime), lastErr)
}
