package handler

import (
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse represents one published rate
type ExchangeRateResponse struct {
	Source string          `json:"source"`
	Target string          `json:"target"`
	Rate   decimal.Decimal `json:"rate"`
}

// ExchangeRatesResponse represents the response for the exchange rates endpoint
type ExchangeRatesResponse struct {
	Base  string                 `json:"base"`
	Rates []ExchangeRateResponse `json:"rates"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
