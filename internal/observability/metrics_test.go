package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Wrap)
	r.Post("/webhook/{provider}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, p := range []string{"/webhook/lemonsqueezy", "/webhook/nowpayments"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, p, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/webhook/{provider}", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/healthz", "200")))
}

func TestWebhookMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)
	m.ObserveWebhook("nowpayments", OutcomeIgnored)
	m.ObserveWebhook("nowpayments", OutcomeIgnored)
	m.ObserveNotification("owner", "sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.webhooksTotal.WithLabelValues("nowpayments", OutcomeIgnored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("owner", "sent")))

	var nilMetrics *WebhookMetrics
	nilMetrics.ObserveWebhook("x", "y")
	nilMetrics.ObserveNotification("x", "y")
}
