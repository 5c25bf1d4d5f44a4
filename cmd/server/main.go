// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	binanceservice "equityorder/internal/binance/service"
	"equityorder/internal/config"
	equityservice "equityorder/internal/equity/service"
	equityhttp "equityorder/internal/equity/transport/http"
	"equityorder/internal/metrics"
	"equityorder/pkg/logger"
	"equityorder/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logg.Sync()

	metrics.InitMetrics()

	orderService := binanceservice.NewSpotOrderService(binanceservice.Options{
		APIKey:    cfg.BinanceAPIKey,
		SecretKey: cfg.BinanceSecretKey,
		BaseURL:   cfg.BinanceBaseURL,
		Testnet:   cfg.BinanceTestnet,
		Timeout:   cfg.BinanceTimeout,
	}, logg.Named("binance"))
	syncCtx, cancelSync := context.WithTimeout(context.Background(), cfg.BinanceTimeout)
	if err := orderService.SyncTime(syncCtx); err != nil {
		logg.Warn("Binance time sync failed, using local clock", zap.Error(err))
	}
	cancelSync()

	order := equityservice.NewEquityOrder(orderService, cfg.OrderSymbol, cfg.OrderThreshold, cfg.OrderQuantity, logg.Named("order"))
	tracker := equityservice.NewTracker()
	tracker.Watch(order)
	metrics.WatchOrder(order)

	handler := equityhttp.NewEquityHandler(order, tracker, logg.Named("http"))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(logg.Named("http")))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	handler.Routes(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logg.Info("Shutdown signal received, starting graceful shutdown")
		shutdownServer(server, logg)
	}()

	logg.Info("Server running",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("symbol", cfg.OrderSymbol),
		zap.String("threshold", cfg.OrderThreshold.String()),
		zap.Int64("quantity", cfg.OrderQuantity),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Fatal("Server failed", zap.Error(err))
	}
}

func shutdownServer(server *http.Server, logg *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Server shutdown failed", zap.Error(err))
	}
	logg.Info("Server stopped")
}
