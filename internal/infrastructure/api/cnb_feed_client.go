// Package api holds the clients of the external rate sources
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/metrics"
	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second

	// maxFeedBytes bounds the body read; the daily fixing is a couple of kilobytes
	maxFeedBytes = 1 << 20
)

// RetryPolicy controls how transport errors and 5xx responses are retried
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy retries three times starting at one second
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultRetryBaseDelay,
	}
}

// CNBFeedClient fetches the CNB fixing text over HTTP
type CNBFeedClient struct {
	httpClient *http.Client
	retries    RetryPolicy
	logger     logger.Logger
	metrics    *metrics.FeedMetrics
}

var _ service.FeedFetcher = (*CNBFeedClient)(nil)

// NewCNBFeedClient creates a new feed client. A nil httpClient gets a client with a
// ten second timeout, a nil log the default logger; m may be nil.
func NewCNBFeedClient(httpClient *http.Client, retries RetryPolicy, log logger.Logger, m *metrics.FeedMetrics) *CNBFeedClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	if retries.MaxRetries < 0 {
		retries.MaxRetries = 0
	}
	if retries.BaseDelay <= 0 {
		retries.BaseDelay = defaultRetryBaseDelay
	}

	return &CNBFeedClient{
		httpClient: httpClient,
		retries:    retries,
		logger:     log,
		metrics:    m,
	}
}

// ErrFeedTooLarge is returned when the feed body exceeds the read limit.
// A truncated feed could end inside a record, so it is never parsed.
var ErrFeedTooLarge = fmt.Errorf("feed body exceeds %d bytes", maxFeedBytes)

// errStatus reports a non-success status from the feed
type errStatus struct {
	code int
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("feed returned error status: %d", e.code)
}

// Fetch returns the feed body at url. Every failure is logged and yields an empty string.
func (c *CNBFeedClient) Fetch(ctx context.Context, url string) string {
	start := time.Now()

	text, err := c.fetch(ctx, url)
	took := time.Since(start)
	c.metrics.ObserveFetch(err == nil, took)

	if err != nil {
		fields := map[string]interface{}{
			"url":         url,
			"duration_ms": took.Milliseconds(),
			"error":       err.Error(),
		}
		var statusErr *errStatus
		if errors.As(err, &statusErr) {
			fields["status"] = statusErr.code
		}
		c.logger.Warn("Failed to fetch feed", fields)
		return ""
	}

	c.logger.Debug("Feed fetched", map[string]interface{}{
		"url":         url,
		"bytes":       len(text),
		"duration_ms": took.Milliseconds(),
	})

	return text
}

func (c *CNBFeedClient) fetch(ctx context.Context, url string) (string, error) {
	backoff := retry.WithMaxRetries(uint64(c.retries.MaxRetries), retry.NewExponential(c.retries.BaseDelay))

	var text string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Add("Accept", "text/plain")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("Feed request failed", map[string]interface{}{
				"url":     url,
				"attempt": attempt,
				"error":   err.Error(),
			})
			return retry.RetryableError(fmt.Errorf("failed to execute request: %w", err))
		}

		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				c.logger.Warn("Error closing response body", map[string]interface{}{
					"error": closeErr.Error(),
				})
			}
		}()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(&errStatus{code: resp.StatusCode})
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return &errStatus{code: resp.StatusCode}
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("failed to read response body: %w", err))
		}
		if len(body) > maxFeedBytes {
			return ErrFeedTooLarge
		}

		text = string(body)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed after %d attempts: %w", attempt, err)
	}

	return text, nil
}
