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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nebula-labs/catalog/internal/config"
	"github.com/nebula-labs/catalog/internal/db/dial"
	domres "github.com/nebula-labs/catalog/internal/domain/resource"
	logpkg "github.com/nebula-labs/catalog/internal/logger"
	"github.com/nebula-labs/catalog/internal/metrics"
	resourcerepo "github.com/nebula-labs/catalog/internal/repository/resource"
	chiTransport "github.com/nebula-labs/catalog/internal/transport/chi"
	"github.com/nebula-labs/catalog/internal/usecase/access"
	healthuc "github.com/nebula-labs/catalog/internal/usecase/health"
	resourceuc "github.com/nebula-labs/catalog/internal/usecase/resource"
	"github.com/nebula-labs/catalog/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalog API server",
		zap.String("version", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("strict_not_found", cfg.HTTP.StrictNotFound),
	)

	metrics.Register()

	ctx := context.Background()
	store, err := dial.Open(ctx, cfg.Database, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// One query service per resource kind, each bound to its own collection
	services := make([]*resourceuc.Service, 0, len(domres.All()))
	for _, kind := range domres.All() {
		coll := cfg.Storage.Collection(kind)
		repo := resourcerepo.New(kind, store.Collection(coll))
		services = append(services, resourceuc.New(kind, repo))
		logger.Debug("Registered resource", zap.String("kind", kind.String()), zap.String("collection", coll))
	}

	gate := access.New(cfg.Auth.ActiveTokens())
	if !gate.Enabled() {
		logger.Warn("Access gate disabled by auth.disabled, resources are served without a token")
	}

	healthSvc := healthuc.New(store)
	server := chiTransport.NewServer(services, healthSvc, logger,
		chiTransport.WithStrictNotFound(cfg.HTTP.StrictNotFound),
	)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEvent(logger))
	r.Use(chiTransport.AccessGate(gate))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
