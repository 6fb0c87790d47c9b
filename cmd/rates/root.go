package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/config"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	domain "github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/api"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/middleware"
	"github.com/spf13/cobra"
)

type rootParams struct {
	currencies    []string
	feedURL       string
	timeout       time.Duration
	headerRecords int
	verbose       bool
}

// newFetcher builds the feed fetcher; tests replace it
var newFetcher = func(timeout time.Duration, retries api.RetryPolicy, log logger.Logger) domain.FeedFetcher {
	return api.NewCNBFeedClient(&http.Client{Timeout: timeout}, retries, log, nil)
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	params := &rootParams{}

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Prints the CNB exchange rates published for the given currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), params, cfg)
		},
	}

	cmd.Flags().StringSliceVarP(&params.currencies, "currencies", "c", cfg.DefaultCurrencies, "currency codes to look up")
	cmd.Flags().StringVar(&params.feedURL, "feed-url", cfg.FeedURL, "URL of the daily fixing text feed")
	cmd.Flags().DurationVar(&params.timeout, "timeout", cfg.FeedTimeout, "feed request timeout")
	cmd.Flags().IntVar(&params.headerRecords, "header-records", cfg.HeaderRecords, "leading feed records to discard")
	cmd.Flags().BoolVarP(&params.verbose, "verbose", "v", false, "log to stderr")

	return cmd
}

func run(ctx context.Context, out io.Writer, params *rootParams, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = middleware.WithRequestID(ctx, "")

	log := logger.NewNopLogger()
	if params.verbose {
		log = logger.NewJSONLogger(os.Stderr, logger.DebugLevel)
	}

	retries := api.RetryPolicy{MaxRetries: cfg.FeedMaxRetries, BaseDelay: cfg.FeedRetryDelay}
	provider, err := service.NewExchangeRateProvider(newFetcher(params.timeout, retries, log),
		params.feedURL, params.headerRecords, log, nil)
	if err != nil {
		return fmt.Errorf("failed to create exchange rate provider: %w", err)
	}

	rates := provider.GetExchangeRates(ctx, entity.NewCurrencies(params.currencies...))

	fmt.Fprintf(out, "Successfully retrieved %d exchange rates:\n", len(rates))
	for _, rate := range rates {
		fmt.Fprintln(out, rate.String())
	}

	return nil
}
