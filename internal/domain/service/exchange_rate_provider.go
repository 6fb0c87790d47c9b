package service

import (
	"context"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
)

// ExchangeRateProvider returns the rates a source publishes for the requested currencies
type ExchangeRateProvider interface {
	// GetExchangeRates never synthesizes rates the source does not publish
	GetExchangeRates(ctx context.Context, currencies []entity.Currency) []entity.ExchangeRate
}
