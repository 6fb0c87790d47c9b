// Package config loads application configuration from the environment
package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFeedURL is the CNB daily fixing in its pipe separated text form
const DefaultFeedURL = "https://www.cnb.cz/en/financial-markets/foreign-exchange-market/central-bank-exchange-rate-fixing/central-bank-exchange-rate-fixing/daily.txt"

const (
	defaultPort           = "8080"
	defaultFeedTimeout    = 10 * time.Second
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = time.Second
	defaultHeaderRecords  = 1
	defaultLogLevel       = "INFO"
	defaultCurrencies     = "USD,EUR,CZK,JPY,KES,RUB,THB,TRY,XYZ"
)

// Config holds application configuration.
type Config struct {
	Port              string
	FeedURL           string
	FeedTimeout       time.Duration
	FeedMaxRetries    int
	FeedRetryDelay    time.Duration
	HeaderRecords     int
	LogLevel          string
	DefaultCurrencies []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Invalid values fall back to their defaults with a warning, except a malformed
// FEED_URL, which is an error.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("FEED_URL", DefaultFeedURL)
	v.SetDefault("FEED_TIMEOUT", defaultFeedTimeout.String())
	v.SetDefault("FEED_MAX_RETRIES", defaultMaxRetries)
	v.SetDefault("FEED_RETRY_BASE_DELAY", defaultRetryBaseDelay.String())
	v.SetDefault("FEED_HEADER_RECORDS", defaultHeaderRecords)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("DEFAULT_CURRENCIES", defaultCurrencies)
	v.AutomaticEnv()

	cfg := &Config{
		Port:     v.GetString("PORT"),
		FeedURL:  v.GetString("FEED_URL"),
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
		log.Printf("Warning: FEED_URL is empty. Defaulting to %s\n", cfg.FeedURL)
	}

	if err := validateFeedURL(cfg.FeedURL); err != nil {
		return nil, err
	}

	cfg.FeedTimeout = durationOrDefault(v.GetString("FEED_TIMEOUT"), "FEED_TIMEOUT", defaultFeedTimeout)
	cfg.FeedRetryDelay = durationOrDefault(v.GetString("FEED_RETRY_BASE_DELAY"), "FEED_RETRY_BASE_DELAY", defaultRetryBaseDelay)

	cfg.FeedMaxRetries = v.GetInt("FEED_MAX_RETRIES")
	if cfg.FeedMaxRetries < 0 {
		log.Printf("Warning: Invalid value for FEED_MAX_RETRIES (%d). Defaulting to %d.\n", cfg.FeedMaxRetries, defaultMaxRetries)
		cfg.FeedMaxRetries = defaultMaxRetries
	}

	cfg.HeaderRecords = v.GetInt("FEED_HEADER_RECORDS")
	if cfg.HeaderRecords < 0 {
		log.Printf("Warning: Invalid value for FEED_HEADER_RECORDS (%d). Defaulting to %d.\n", cfg.HeaderRecords, defaultHeaderRecords)
		cfg.HeaderRecords = defaultHeaderRecords
	}

	cfg.DefaultCurrencies = SplitCodes(v.GetString("DEFAULT_CURRENCIES"))

	return cfg, nil
}

// SplitCodes splits a comma separated list of currency codes, dropping empty entries.
// Codes are otherwise kept exactly as written.
func SplitCodes(list string) []string {
	codes := []string{}
	for _, code := range strings.Split(list, ",") {
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// validateFeedURL requires an absolute http or https URL
func validateFeedURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid FEED_URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid FEED_URL %q: must be an absolute http or https URL", raw)
	}
	return nil
}

func durationOrDefault(value, name string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		if value != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", name, value, fallback.String())
		}
		return fallback
	}
	return d
}
