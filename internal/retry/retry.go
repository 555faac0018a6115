package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	MaxAttempts int           // Retries after the first call (default: 3)
	BaseDelay   time.Duration // Base delay between retries (default: 500ms)
	MaxDelay    time.Duration // Maximum delay between retries (default: 5s)
}

// RetryableFunc is an operation without a result.
type RetryableFunc func() error

// DefaultConfig returns the default retry configuration
func DefaultConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Retry executes fn with retry logic
func Retry(ctx context.Context, config RetryConfig, fn RetryableFunc) error {
	_, err := RetryWithResult(ctx, config, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryWithResult executes a function that returns a result with retry logic
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= config.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			slog.WarnContext(ctx, "Non-retryable error encountered, not retrying",
				"attempt", attempt+1,
				"error", err)
			return zero, err
		}

		if attempt == config.MaxAttempts {
			slog.WarnContext(ctx, "Max retry attempts reached, giving up",
				"attempts", config.MaxAttempts+1,
				"error", err)
			return zero, fmt.Errorf("max retry attempts (%d) reached, last error: %w", config.MaxAttempts+1, err)
		}

		delay := calculateDelay(config, attempt)
		slog.WarnContext(ctx, "Retryable error encountered, will retry",
			"attempt", attempt+1,
			"max_attempts", config.MaxAttempts+1,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// isRetryableError determines if an error should be retried
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}

	var httpErr interface {
		StatusCode() int
	}
	if errors.As(err, &httpErr) {
		statusCode := httpErr.StatusCode()
		return statusCode >= 500 || statusCode == http.StatusTooManyRequests
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded) || isNetworkError(err)
}

// isNetworkError checks if error is a network-related error
func isNetworkError(err error) bool {
	errorStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection",
		"timeout",
		"network",
		"dial",
		"eof",
		"reset",
		"refused",
		"loading",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errorStr, keyword) {
			return true
		}
	}
	return false
}

// calculateDelay computes the delay for exponential backoff
func calculateDelay(config RetryConfig, attempt int) time.Duration {
	delay := config.BaseDelay * time.Duration(1<<uint(attempt))
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}
