// Package handler internal/infrastructure/handler/exchange_rate_handler.go
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/config"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// MaxRequestedCurrencies bounds the number of codes accepted in one request
const MaxRequestedCurrencies = 200

// ExchangeRateHandler handles HTTP requests for published exchange rates
type ExchangeRateHandler struct {
	provider          service.ExchangeRateProvider
	defaultCurrencies []entity.Currency
	logger            logger.Logger
}

// NewExchangeRateHandler creates a new exchange rate handler. defaultCodes answer
// requests that do not name any currencies.
func NewExchangeRateHandler(provider service.ExchangeRateProvider, defaultCodes []string, log logger.Logger) *ExchangeRateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeRateHandler{
		provider:          provider,
		defaultCurrencies: entity.NewCurrencies(defaultCodes...),
		logger:            log,
	}
}

// GetExchangeRates handles GET /exchange-rates?currencies=USD,EUR
func (h *ExchangeRateHandler) GetExchangeRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	currencies := h.defaultCurrencies
	if values, ok := r.URL.Query()["currencies"]; ok {
		currencies = []entity.Currency{}
		for _, value := range values {
			currencies = append(currencies, entity.NewCurrencies(config.SplitCodes(value)...)...)
		}
	}

	if len(currencies) > MaxRequestedCurrencies {
		h.logger.Warn("Too many currencies requested", map[string]interface{}{
			"request_id": requestID,
			"requested":  len(currencies),
			"max":        MaxRequestedCurrencies,
		})
		sendErrorResponse(w, h.logger, "Too many currencies",
			fmt.Sprintf("At most %d currencies can be requested at once", MaxRequestedCurrencies),
			http.StatusBadRequest, requestID)
		return
	}

	h.logger.Debug("Handling exchange rates request", map[string]interface{}{
		"request_id": requestID,
		"currencies": currencies,
	})

	rates := h.provider.GetExchangeRates(r.Context(), currencies)

	resp := ExchangeRatesResponse{
		Base:  entity.BaseCurrency.Code,
		Rates: make([]ExchangeRateResponse, 0, len(rates)),
	}
	for _, rate := range rates {
		resp.Rates = append(resp.Rates, ExchangeRateResponse{
			Source: rate.Source.Code,
			Target: rate.Target.Code,
			Rate:   rate.Rate,
		})
	}

	sendJSONResponse(w, h.logger, resp, http.StatusOK, requestID)
}

// Health handles GET /health
func (h *ExchangeRateHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, h.logger, HealthResponse{Status: "ok"}, http.StatusOK, middleware.GetRequestID(r.Context()))
}

// RegisterRoutes registers the exchange rate handler routes
func (h *ExchangeRateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/exchange-rates", h.GetExchangeRates).Methods(http.MethodGet)
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	h.logger.Info("Exchange rate routes registered", map[string]interface{}{
		"routes": []string{
			"GET /exchange-rates",
			"GET /health",
		},
	})
}

func sendJSONResponse(w http.ResponseWriter, log logger.Logger, body interface{}, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSONResponse(w, log, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}, statusCode, requestID)
}
