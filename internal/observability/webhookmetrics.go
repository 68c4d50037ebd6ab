package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook outcomes.
const (
	OutcomeRejected  = "rejected"
	OutcomeIgnored   = "ignored"
	OutcomeNotified  = "notified"
	OutcomeFailed    = "failed"
	OutcomeMalformed = "malformed"
)

type WebhookMetrics struct {
	webhooksTotal      *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	factory := promauto.With(reg)
	return &WebhookMetrics{
		webhooksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Webhook deliveries by provider and outcome.",
		}, []string{"provider", "outcome"}),
		notificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts by kind and result.",
		}, []string{"kind", "result"}),
	}
}

func (m *WebhookMetrics) ObserveWebhook(provider, outcome string) {
	if m == nil {
		return
	}
	m.webhooksTotal.WithLabelValues(provider, outcome).Inc()
}

func (m *WebhookMetrics) ObserveNotification(kind, result string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(kind, result).Inc()
}
