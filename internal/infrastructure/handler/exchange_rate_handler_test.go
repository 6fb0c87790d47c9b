package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(provider *mocks.MockExchangeRateProvider, defaults ...string) *mux.Router {
	h := NewExchangeRateHandler(provider, defaults, logger.NewNopLogger())
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func TestGetExchangeRatesHandler(t *testing.T) {
	usd := entity.NewExchangeRate(entity.NewCurrency("USD"), decimal.RequireFromString("23.162"))
	jpy := entity.NewExchangeRate(entity.NewCurrency("JPY"), decimal.RequireFromString("0.15234"))

	t.Run("Requested currencies", func(t *testing.T) {
		// Setup
		provider := new(mocks.MockExchangeRateProvider)
		provider.On("GetExchangeRates", mock.Anything, entity.NewCurrencies("USD", "JPY", "XYZ")).
			Return([]entity.ExchangeRate{usd, jpy}).Once()
		router := setupRouter(provider, "EUR")

		// Execute
		req := httptest.NewRequest(http.MethodGet, "/exchange-rates?currencies=USD,JPY,XYZ", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t,
			`{"base":"CZK","rates":[{"source":"USD","target":"CZK","rate":"23.162"},{"source":"JPY","target":"CZK","rate":"0.15234"}]}`,
			w.Body.String())
		provider.AssertExpectations(t)
	})

	t.Run("Repeated parameters are combined", func(t *testing.T) {
		provider := new(mocks.MockExchangeRateProvider)
		provider.On("GetExchangeRates", mock.Anything, entity.NewCurrencies("USD", "JPY")).
			Return([]entity.ExchangeRate{usd, jpy}).Once()
		router := setupRouter(provider)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exchange-rates?currencies=USD&currencies=JPY", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		provider.AssertExpectations(t)
	})

	t.Run("Codes are passed through unchanged", func(t *testing.T) {
		provider := new(mocks.MockExchangeRateProvider)
		provider.On("GetExchangeRates", mock.Anything, entity.NewCurrencies("usd")).
			Return([]entity.ExchangeRate{}).Once()
		router := setupRouter(provider)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exchange-rates?currencies=usd", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"base":"CZK","rates":[]}`, w.Body.String())
		provider.AssertExpectations(t)
	})

	t.Run("Default currencies", func(t *testing.T) {
		provider := new(mocks.MockExchangeRateProvider)
		provider.On("GetExchangeRates", mock.Anything, entity.NewCurrencies("USD", "EUR")).
			Return([]entity.ExchangeRate{usd}).Once()
		router := setupRouter(provider, "USD", "EUR")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exchange-rates", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp ExchangeRatesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Rates, 1)
		assert.Equal(t, "USD", resp.Rates[0].Source)
		provider.AssertExpectations(t)
	})

	t.Run("Empty currency list", func(t *testing.T) {
		provider := new(mocks.MockExchangeRateProvider)
		provider.On("GetExchangeRates", mock.Anything, []entity.Currency{}).
			Return([]entity.ExchangeRate{}).Once()
		router := setupRouter(provider, "USD")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exchange-rates?currencies=", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"base":"CZK","rates":[]}`, w.Body.String())
		provider.AssertExpectations(t)
	})

	t.Run("Too many currencies", func(t *testing.T) {
		provider := new(mocks.MockExchangeRateProvider)
		router := setupRouter(provider)

		codes := strings.Repeat("AAA,", MaxRequestedCurrencies+1)
		req := httptest.NewRequest(http.MethodGet, "/exchange-rates?currencies="+codes, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Too many currencies", resp.Error)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		provider.AssertNotCalled(t, "GetExchangeRates", mock.Anything, mock.Anything)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		provider := new(mocks.MockExchangeRateProvider)
		router := setupRouter(provider)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/exchange-rates", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	router := setupRouter(new(mocks.MockExchangeRateProvider))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
