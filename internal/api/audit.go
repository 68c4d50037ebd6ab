package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type auditEvent struct {
	Time      string `json:"time"`
	Decision  string `json:"decision"`
	Provider  string `json:"provider"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	RemoteIP  string `json:"remote_ip,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// auditWebhook records a signature decision. Payloads are never recorded.
func (s *Server) auditWebhook(r *http.Request, provider, decision, reason string) {
	ev := auditEvent{
		Time:      s.now().UTC().Format(time.RFC3339),
		Decision:  strings.TrimSpace(decision),
		Provider:  provider,
		Method:    r.Method,
		Path:      r.URL.Path,
		RemoteIP:  requestRemoteIP(r),
		RequestID: middleware.GetReqID(r.Context()),
		Reason:    strings.TrimSpace(reason),
	}
	s.logger.Info("audit_webhook",
		"decision", ev.Decision,
		"provider", ev.Provider,
		"path", ev.Path,
		"remote_ip", ev.RemoteIP,
		"request_id", ev.RequestID,
		"reason", ev.Reason,
	)
	s.writeAuditLine(ev)
}

func (s *Server) writeAuditLine(ev auditEvent) {
	if s.auditWriter == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error(err, "audit_webhook encode failed")
		return
	}
	s.auditMu.Lock()
	defer s.auditMu.Unlock()
	if _, err := s.auditWriter.Write(append(b, '\n')); err != nil {
		s.logger.Error(err, "audit_webhook write failed")
	}
}

// requestRemoteIP is the peer address, or the forwarded client address when
// middleware.RealIP is enabled.
func requestRemoteIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
