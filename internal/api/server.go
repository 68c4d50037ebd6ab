package api

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"paynotify/internal/config"
	"paynotify/internal/ingest"
	"paynotify/internal/model"

	"github.com/go-logr/logr"
)

const defaultMaxBodyBytes int64 = 1 << 20 // 1 MiB

// Notifier dispatches the notification for a verified, successful order.
type Notifier interface {
	Notify(ctx context.Context, order model.OrderNotification) error
}

// WebhookObserver receives one outcome per webhook delivery.
type WebhookObserver interface {
	ObserveWebhook(provider, outcome string)
}

type RateLimitPolicy struct {
	Enabled   bool
	PerMinute int
	Burst     int
}

type ServerOptions struct {
	Registry     *ingest.Registry
	Notifier     Notifier
	Public       config.PublicConfig
	StaticDir    string
	MaxBodyBytes int64
	RateLimit    RateLimitPolicy
	Logger       logr.Logger
	Observer     WebhookObserver
	Middleware   []func(next http.Handler) http.Handler
	AuditWriter  io.Writer
	Now          func() time.Time

	// TrustProxyHeaders enables chi's RealIP; the rate limiter and audit
	// trail then key on the forwarded client address.
	TrustProxyHeaders bool
}

type Server struct {
	registry     *ingest.Registry
	notifier     Notifier
	public       config.PublicConfig
	staticDir    string
	maxBodyBytes int64
	logger       logr.Logger
	observer     WebhookObserver
	middleware   []func(next http.Handler) http.Handler
	rateLimiter  *webhookRateLimiter
	trustProxy   bool
	now          func() time.Time

	auditMu     sync.Mutex
	auditWriter io.Writer
}

func NewServer(opts ServerOptions) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = ingest.NewRegistry()
	}
	limit := opts.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		registry:     reg,
		notifier:     opts.Notifier,
		public:       opts.Public,
		staticDir:    opts.StaticDir,
		maxBodyBytes: limit,
		logger:       opts.Logger,
		observer:     opts.Observer,
		middleware:   opts.Middleware,
		rateLimiter:  newWebhookRateLimiter(opts.RateLimit, now),
		trustProxy:   opts.TrustProxyHeaders,
		now:          now,
		auditWriter:  opts.AuditWriter,
	}
}

func (s *Server) observe(provider, outcome string) {
	if s.observer != nil {
		s.observer.ObserveWebhook(provider, outcome)
	}
}
