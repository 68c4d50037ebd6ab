package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// webhookRateLimiter keeps one token bucket per client IP.
type webhookRateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newWebhookRateLimiter(cfg RateLimitPolicy, now func() time.Time) *webhookRateLimiter {
	if !cfg.Enabled || cfg.PerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &webhookRateLimiter{
		limit:     rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		burst:     burst,
		now:       now,
		visitors:  make(map[string]*visitor),
		lastSweep: now(),
	}
}

func (l *webhookRateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// limitWebhooks must be installed ahead of captureBody.
func (s *Server) limitWebhooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, webhookPrefix) && !s.rateLimiter.Allow(requestRemoteIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeText(w, http.StatusTooManyRequests, "rate limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}
