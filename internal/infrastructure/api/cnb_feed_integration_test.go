// internal/infrastructure/api/cnb_feed_integration_test.go
package api

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/config"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/feed"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

// TestCNBFeedIntegration talks to the real CNB endpoint
func TestCNBFeedIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CNB integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := NewCNBFeedClient(nil, DefaultRetryPolicy(), logger.NewNopLogger(), nil)
	text := client.Fetch(ctx, config.DefaultFeedURL)
	if text == "" {
		t.Skip("CNB feed unreachable from this environment")
	}

	rates := feed.ExchangeRates(text, entity.NewCurrencies("USD", "EUR"), feed.DefaultHeaderRecords)

	assert.Len(t, rates, 2)
	for _, rate := range rates {
		assert.Equal(t, entity.BaseCurrency, rate.Target)
		assert.True(t, rate.Rate.IsPositive())
	}
}
