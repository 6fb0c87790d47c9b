// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockFeedFetcher mocks the FeedFetcher interface
type MockFeedFetcher struct {
	mock.Mock
}

func (m *MockFeedFetcher) Fetch(ctx context.Context, url string) string {
	args := m.Called(ctx, url)
	return args.String(0)
}

// MockExchangeRateProvider mocks the ExchangeRateProvider interface
type MockExchangeRateProvider struct {
	mock.Mock
}

func (m *MockExchangeRateProvider) GetExchangeRates(ctx context.Context, currencies []entity.Currency) []entity.ExchangeRate {
	args := m.Called(ctx, currencies)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]entity.ExchangeRate)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
