package internal

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var syntheticAmounts = []int{1, 100, 1000}

// syntheticFeed builds a header plus n data lines with codes C000, C001, ...
// Country and currency names carry no digits so each line yields one record.
func syntheticFeed(n int) string {
	var b strings.Builder
	b.WriteString("13 Oct 2026 #198\nCountry|Currency|Amount|Code|Rate\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Country|unit|%d|C%03d|%d.%03d\n", syntheticAmounts[i%3], i, 10+i, i)
	}
	return b.String()
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	const (
		feedLines   = 500
		numRequests = 1000
		concurrency = 10
	)

	fetcher := new(mocks.MockFeedFetcher)
	fetcher.On("Fetch", mock.Anything, "http://feed.test/daily.txt").Return(syntheticFeed(feedLines))

	provider, err := service.NewExchangeRateProvider(fetcher, "http://feed.test/daily.txt", 1, logger.NewNopLogger(), nil)
	require.NoError(t, err)

	t.Run("Concurrent requests", func(t *testing.T) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		perWorker := numRequests / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				rnd := rand.New(rand.NewSource(int64(workerID)))
				ctx := context.Background()
				for j := 0; j < perWorker; j++ {
					codes := []string{
						fmt.Sprintf("C%03d", rnd.Intn(feedLines)),
						fmt.Sprintf("C%03d", rnd.Intn(feedLines)),
						"ZZZ",
					}

					rates := provider.GetExchangeRates(ctx, entity.NewCurrencies(codes...))
					for _, rate := range rates {
						assert.Contains(t, codes, rate.Source.Code)
						assert.Equal(t, entity.BaseCurrency, rate.Target)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		// Calculate throughput
		throughput := float64(numRequests) / duration.Seconds()
		t.Logf("Exchange rate requests: %d requests over a %d line feed in %v (%.2f req/sec)",
			numRequests, feedLines, duration, throughput)
	})
}

func TestSyntheticFeedIsFullyParsed(t *testing.T) {
	fetcher := new(mocks.MockFeedFetcher)
	fetcher.On("Fetch", mock.Anything, "http://feed.test/daily.txt").Return(syntheticFeed(3))

	provider, err := service.NewExchangeRateProvider(fetcher, "http://feed.test/daily.txt", 1, logger.NewNopLogger(), nil)
	require.NoError(t, err)

	rates := provider.GetExchangeRates(context.Background(), entity.NewCurrencies("C000", "C001", "C002"))

	require.Len(t, rates, 3)
	assert.Equal(t, "C000/CZK=10", rates[0].String())
	assert.Equal(t, "C001/CZK=0.11001", rates[1].String())
	assert.Equal(t, "C002/CZK=0.012002", rates[2].String())
}
