package service

import (
	"context"
)

// FeedFetcher retrieves the raw text of a rate feed
type FeedFetcher interface {
	// Fetch returns the body found at url, or an empty string on any failure
	Fetch(ctx context.Context, url string) string
}
