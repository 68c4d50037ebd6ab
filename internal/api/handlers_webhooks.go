package api

import (
	"errors"
	"net/http"
	"strings"

	"paynotify/internal/ingest"
	"paynotify/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var errNoNotifier = errors.New("notifier is not configured")

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	provider := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "provider")))
	adapter, err := s.registry.Adapter(provider)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedProvider) {
			writeText(w, http.StatusNotFound, "not found")
			return
		}
		s.fail(w, r, provider, observability.OutcomeFailed, err, "webhook registry lookup failed")
		return
	}
	log := s.logger.WithValues("provider", provider, "request_id", middleware.GetReqID(r.Context()))

	raw, ok := RawRequestFrom(r.Context())
	if !ok {
		s.fail(w, r, provider, observability.OutcomeFailed, errors.New("raw body was not captured"), "webhook body unavailable")
		return
	}

	if err := adapter.Authorize(raw.Header, raw.Body); err != nil {
		s.auditWebhook(r, provider, "deny", err.Error())
		s.observe(provider, observability.OutcomeRejected)
		writeText(w, http.StatusBadRequest, "invalid signature")
		return
	}
	s.auditWebhook(r, provider, "allow", "")

	event, err := adapter.Parse(raw.Body)
	if err != nil {
		s.fail(w, r, provider, observability.OutcomeMalformed, err, "webhook payload could not be parsed")
		return
	}
	if !event.Successful() {
		log.Info("webhook ignored", "event", event.Name())
		s.observe(provider, observability.OutcomeIgnored)
		writeText(w, http.StatusOK, "ok")
		return
	}

	if s.notifier == nil {
		s.fail(w, r, provider, observability.OutcomeFailed, errNoNotifier, "notification failed")
		return
	}
	order := event.Order()
	if err := s.notifier.Notify(r.Context(), order); err != nil {
		s.fail(w, r, provider, observability.OutcomeFailed, err, "notification failed")
		return
	}
	log.Info("webhook processed", "event", order.EventName, "website_type", order.WebsiteType)
	s.observe(provider, observability.OutcomeNotified)
	writeText(w, http.StatusOK, "ok")
}

// fail logs the cause and answers with a generic 500; details stay in the log.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, provider, outcome string, err error, msg string) {
	s.logger.Error(err, msg, "provider", provider, "request_id", middleware.GetReqID(r.Context()))
	s.observe(provider, outcome)
	writeText(w, http.StatusInternalServerError, "internal error")
}
