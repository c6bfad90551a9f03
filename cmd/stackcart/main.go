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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/stackcart/stackcart/internal/api"
	"github.com/stackcart/stackcart/internal/app"
	"github.com/stackcart/stackcart/internal/domain/credentials"
	"github.com/stackcart/stackcart/internal/domain/settings"
	"github.com/stackcart/stackcart/internal/logger"
	"github.com/stackcart/stackcart/internal/telemetry"
)

func main() {
	if err := run(true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serve bool) error {
	fmt.Println("stackcart - Initializing...")

	appDir := settings.AppDir()
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create app dir: %w", err)
	}

	if err := logger.Init(appDir); err != nil {
		return err
	}
	defer logger.Close()
	log := logger.L()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewPrometheusMetrics(registry)

	env, err := app.Load(appDir,
		app.WithLogger(log),
		app.WithMetrics(metrics),
		app.WithCredentials(credentials.NewCredentialManager(nil)),
	)
	if err != nil {
		return err
	}
	cfg := env.Settings()
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warn("ignoring log level", zap.Error(err))
	}
	log.Info("catalog loaded",
		zap.Int("tools", len(env.Catalog.Tools)),
		zap.Int("categories", len(env.Catalog.Categories)),
		zap.Int("presets", len(env.Catalog.Presets)),
		zap.Int("warnings", len(env.Warnings)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := api.NewSessionManager(ctx, env.Catalog, env.Remote, cfg.SessionIdle(), log.Named("sessions"), metrics)

	controlServer := api.NewControlServer(env.Store, sessions, cfg,
		api.WithServerLogger(log.Named("api")),
		api.WithServerMetrics(metrics, registry),
		api.WithUserPresets(env.Config.Presets),
	)

	if !serve {
		return nil
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ControlPort),
		Handler:           controlServer,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting control server", zap.Int("port", cfg.ControlPort))
	fmt.Printf("Starting control server on :%d...\n", cfg.ControlPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control server failed: %w", err)
	}
	log.Info("control server stopped")
	return nil
}
