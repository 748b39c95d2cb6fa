package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// IPRateLimiter is an in-process sliding-window limiter keyed by client IP.
// It is deliberately not redis-backed: the service must keep serving when
// running in local-only mode.
type IPRateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
}

// Allow records a request for the key and reports whether it is within the
// limit. resetAt is when the oldest counted request leaves the window.
func (l *IPRateLimiter) Allow(key string) (allowed bool, resetAt time.Time) {
	now := time.Now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	times := l.windows[key]
	kept := times[:0]
	for _, t := range times {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.windows[key] = kept
		return false, kept[0].Add(l.window)
	}

	l.windows[key] = append(kept, now)
	return true, now.Add(l.window)
}

type IPRateLimitMiddleware struct {
	limiter *IPRateLimiter
}

func NewIPRateLimitMiddleware(limit int, window time.Duration) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: NewIPRateLimiter(limit, window),
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, resetAt := m.limiter.Allow(r.RemoteAddr)

		if !allowed {
			secondsLeft := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", secondsLeft))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
