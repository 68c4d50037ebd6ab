package bootstrap

import (
	"net/http"
	"strings"

	"paynotify/internal/api"
	"paynotify/internal/config"
	"paynotify/internal/ingest"
	"paynotify/internal/notify"
	"paynotify/internal/observability"
	"paynotify/internal/providers/lemonsqueezy"
	"paynotify/internal/providers/nowpayments"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Runtime struct {
	Handler  http.Handler
	Registry *ingest.Registry
	Cleanup  func()
}

func NewRuntime(cfg config.Config, logger logr.Logger) *Runtime {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := observability.NewHTTPMetrics(reg)
	webhookMetrics := observability.NewWebhookMetrics(reg)

	registry := buildWebhookRegistry(cfg)
	if err := registry.MustHaveProviders(); err != nil {
		logger.Error(err, "no webhook providers registered")
	}
	notifier := notify.New(notify.Config{
		OwnerEmail:            cfg.OwnerEmail,
		From:                  cfg.MailFrom,
		SiteName:              cfg.Public.SiteName,
		SendBuyerConfirmation: cfg.SendBuyerConfirmation,
	}, buildMailer(cfg, logger), logger.WithName("notify"), notify.WithObserver(webhookMetrics))

	var cleanups []func()
	opts := api.ServerOptions{
		Registry:     registry,
		Notifier:     notifier,
		Public:       cfg.Public,
		StaticDir:    cfg.StaticDir,
		MaxBodyBytes: cfg.MaxBodyBytes,
		RateLimit: api.RateLimitPolicy{
			Enabled:   cfg.RateLimit.Enabled,
			PerMinute: cfg.RateLimit.PerMinute,
			Burst:     cfg.RateLimit.Burst,
		},
		Logger:     logger.WithName("api"),
		Observer:   webhookMetrics,
		Middleware: []func(http.Handler) http.Handler{httpMetrics.Wrap},

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}
	if audit := buildAuditLog(cfg.Audit); audit != nil {
		opts.AuditWriter = audit
		cleanups = append(cleanups, func() { _ = audit.Close() })
	}
	server := api.NewServer(opts)

	rootMux := http.NewServeMux()
	rootMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	rootMux.Handle("/", server.Routes())

	return &Runtime{
		Handler:  rootMux,
		Registry: registry,
		Cleanup: func() {
			for _, fn := range cleanups {
				fn()
			}
		},
	}
}

// buildWebhookRegistry registers every provider. A provider without a
// secret stays registered so its deliveries are rejected with 400.
func buildWebhookRegistry(cfg config.Config) *ingest.Registry {
	reg := ingest.NewRegistry()
	reg.Register(lemonsqueezy.NewAdapter(cfg.LemonSqueezy.SigningSecret))
	reg.Register(nowpayments.NewAdapter(cfg.NowPayments.IPNSecret))
	return reg
}

func buildMailer(cfg config.Config, logger logr.Logger) notify.Mailer {
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Pass,
		Secure:   cfg.SMTP.Secure,
	})
	if err != nil {
		logger.Info("smtp mailer disabled", "reason", err.Error())
		return nil
	}
	return mailer
}

func buildAuditLog(cfg config.AuditConfig) *lumberjack.Logger {
	path := strings.TrimSpace(cfg.LogFile)
	if path == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}
