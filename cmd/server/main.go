package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/cnb-exchange-rate-provider/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/config"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/api"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/handler"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/metrics"
	"github.com/damon-houk/cnb-exchange-rate-provider/internal/infrastructure/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// recoveryLogger reports panics caught by gorilla/handlers through the app logger
type recoveryLogger struct {
	log logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic", map[string]interface{}{
		"panic": fmt.Sprint(v...),
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.InfoLevel
	}
	log := logger.NewJSONLogger(os.Stdout, level)
	logger.SetDefaultLogger(log)

	log.Info("Starting CNB exchange rate provider", map[string]interface{}{
		"port":     cfg.Port,
		"feed_url": cfg.FeedURL,
	})

	// Metrics
	registry := prometheus.NewRegistry()
	feedMetrics := metrics.NewFeedMetrics(registry)

	// Feed client and provider
	httpClient := &http.Client{Timeout: cfg.FeedTimeout}
	retries := api.RetryPolicy{MaxRetries: cfg.FeedMaxRetries, BaseDelay: cfg.FeedRetryDelay}
	fetcher := api.NewCNBFeedClient(httpClient, retries, log.WithField("component", "feed_client"), feedMetrics)

	provider, err := service.NewExchangeRateProvider(fetcher, cfg.FeedURL, cfg.HeaderRecords,
		log.WithField("component", "provider"), feedMetrics)
	if err != nil {
		log.Fatal("Failed to create exchange rate provider", map[string]interface{}{"error": err.Error()})
	}

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log.WithField("component", "http")))
	handler.NewExchangeRateHandler(provider, cfg.DefaultCurrencies, log.WithField("component", "handler")).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	root := handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log: log}))(router)
	root = handlers.CORS(handlers.AllowedMethods([]string{http.MethodGet}))(root)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		return
	}
	log.Info("Server stopped", nil)
}
