package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkabbani/evround/internal/adapters/http/api"
	"github.com/mkabbani/evround/internal/adapters/http/swagger"
	service "github.com/mkabbani/evround/internal/app"
	"github.com/mkabbani/evround/internal/config"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/types"
	"github.com/mkabbani/evround/internal/seed"
	"github.com/mkabbani/evround/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logger.Error(err))
		return
	}

	// Create and start the service with configuration options
	svc := service.New(
		service.WithLogger(log),
		service.WithSeedCatalog(catalog),
		service.WithWorkerCount(cfg.ExportWorkerCount),
		service.WithQueueSize(cfg.ExportQueueSize),
		service.WithExportDir(cfg.ExportDir),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API documentation under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, types.Language(cfg.Language))
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// loadCatalog reads the configured catalog file, or falls back to the
// embedded default catalog when no path is set.
func loadCatalog(path string) (*model.Catalog, error) {
	if path == "" {
		return seed.Catalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return model.ParseCatalog(data)
}

// startServiceMetricsUpdater keeps the session and record gauges fresh even
// when no requests are coming in.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the gauges as a side effect.
			svc.GetStats()
		}
	}
}
