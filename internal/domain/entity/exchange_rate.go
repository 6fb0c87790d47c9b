package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a published rate: one unit of Source costs Rate units of Target
type ExchangeRate struct {
	Source Currency        `json:"source"`
	Target Currency        `json:"target"`
	Rate   decimal.Decimal `json:"rate"`
}

// NewExchangeRate creates an exchange rate quoted against the base currency
func NewExchangeRate(source Currency, rate decimal.Decimal) ExchangeRate {
	return ExchangeRate{
		Source: source,
		Target: BaseCurrency,
		Rate:   rate,
	}
}

func (r ExchangeRate) String() string {
	return fmt.Sprintf("%s/%s=%s", r.Source, r.Target, r.Rate.String())
}
