package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const webhookPrefix = "/webhook/"

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	for _, mw := range s.middleware {
		r.Use(mw)
	}
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.limitWebhooks)
	r.Use(captureBody(webhookPrefix, s.maxBodyBytes))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/config", s.handleConfig)
	r.Post(webhookPrefix+"{provider}", s.handleWebhook)

	static := staticHandler(s.staticDir)
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) { serveStatic(w, r, static) })
	r.Head("/*", func(w http.ResponseWriter, r *http.Request) { serveStatic(w, r, static) })
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			s.logger.V(1).Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
