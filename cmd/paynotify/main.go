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

	"paynotify/internal/bootstrap"
	"paynotify/internal/config"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapCfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}
	zapLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger := zapr.NewLogger(zapLogger)

	rt := bootstrap.NewRuntime(cfg, logger)
	defer rt.Cleanup()

	summary := cfg.Summary()
	logger.Info("startup config",
		"static_dir", summary.StaticDir,
		"providers", rt.Registry.Providers(),
		"providers_with_secret", summary.WebhookProviders,
		"smtp_host", summary.SMTPHost,
		"owner_configured", summary.OwnerConfigured,
		"buyer_confirmation", summary.SendBuyerConfirmation,
		"audit_log", summary.AuditLog,
		"rate_limit", summary.RateLimit,
		"trust_proxy_headers", summary.TrustProxyHeaders,
	)
	for _, w := range cfg.Warnings() {
		logger.Info("config warning", "warning", w)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           rt.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("paynotify listening", "addr", cfg.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "http server failed")
			rt.Cleanup()
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "graceful shutdown failed")
		}
	}
}
