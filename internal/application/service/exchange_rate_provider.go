// Package service internal/application/service/exchange_rate_provider.go
package service

import (
	"context"
	"errors"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/feed"
	domain "github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/metrics"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/middleware"
)

var (
	// ErrNilFetcher is returned when the provider is built without a feed fetcher
	ErrNilFetcher = errors.New("feed fetcher is required")
	// ErrEmptyFeedURL is returned when the provider is built without a feed URL
	ErrEmptyFeedURL = errors.New("feed URL is required")
	// ErrNegativeHeaderRecords is returned for a negative header record count
	ErrNegativeHeaderRecords = errors.New("header records must not be negative")
)

// ExchangeRateProvider answers rate requests from a single text feed
type ExchangeRateProvider struct {
	fetcher       domain.FeedFetcher
	feedURL       string
	headerRecords int
	logger        logger.Logger
	metrics       *metrics.FeedMetrics
}

var _ domain.ExchangeRateProvider = (*ExchangeRateProvider)(nil)

// NewExchangeRateProvider creates a provider reading feedURL through fetcher.
// headerRecords leading records of every feed are discarded.
func NewExchangeRateProvider(fetcher domain.FeedFetcher, feedURL string, headerRecords int, log logger.Logger, m *metrics.FeedMetrics) (*ExchangeRateProvider, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if feedURL == "" {
		return nil, ErrEmptyFeedURL
	}
	if headerRecords < 0 {
		return nil, ErrNegativeHeaderRecords
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateProvider{
		fetcher:       fetcher,
		feedURL:       feedURL,
		headerRecords: headerRecords,
		logger:        log,
		metrics:       m,
	}, nil
}

// GetExchangeRates returns the rates the feed publishes for the requested currencies.
// An empty request returns without fetching. A failed fetch yields no rates.
func (p *ExchangeRateProvider) GetExchangeRates(ctx context.Context, currencies []entity.Currency) []entity.ExchangeRate {
	requestID := middleware.GetRequestID(ctx)

	if len(currencies) == 0 {
		p.logger.Debug("Empty currency request", map[string]interface{}{
			"request_id": requestID,
		})
		p.metrics.ObserveRequest(0)
		return []entity.ExchangeRate{}
	}

	p.logger.Info("Retrieving exchange rates", map[string]interface{}{
		"request_id": requestID,
		"requested":  len(currencies),
		"feed_url":   p.feedURL,
	})

	text := p.fetcher.Fetch(ctx, p.feedURL)
	rates := feed.ExchangeRates(text, currencies, p.headerRecords)

	p.logger.Info("Exchange rates retrieved", map[string]interface{}{
		"request_id": requestID,
		"requested":  len(currencies),
		"returned":   len(rates),
		"feed_bytes": len(text),
	})
	p.metrics.ObserveRequest(len(rates))

	return rates
}
