package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/google/uuid"
)

const (
	limiterSweepInterval = 10 * time.Minute
	limiterIdleCutoff    = 30 * time.Minute
)

// limiterPool hands out one token bucket per key (client IP or tenant ID) and
// evicts buckets that have been idle longer than limiterIdleCutoff. The sweep
// goroutine stops when ctx is cancelled.
type limiterPool[K comparable] struct {
	mu      sync.Mutex
	buckets map[K]*bucket
	rps     rate.Limit
	burst   int
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLimiterPool[K comparable](ctx context.Context, requestsPerSecond float64, burst int) *limiterPool[K] {
	p := &limiterPool[K]{
		buckets: make(map[K]*bucket),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}

func (p *limiterPool[K]) allow(key K) bool {
	p.mu.Lock()
	b, ok := p.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(p.rps, p.burst)}
		p.buckets[key] = b
	}
	b.seen = time.Now()
	lim := b.lim
	p.mu.Unlock()

	return lim.Allow()
}

func (p *limiterPool[K]) sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-limiterIdleCutoff)
	for key, b := range p.buckets {
		if b.seen.Before(cutoff) {
			delete(p.buckets, key)
		}
	}
}

// RateLimitByIP throttles unauthenticated surfaces (sign-in and the public
// QR-menu ordering endpoints) per client IP. Relies on chi's RealIP running
// earlier in the chain so r.RemoteAddr holds the real client address.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.allow(r.RemoteAddr) {
				writeError(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit throttles authenticated panel traffic per tenant, so one busy
// restaurant cannot starve the others. Requests without a tenant in context
// pass through.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool[uuid.UUID](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, ok := TenantIDFromContext(r.Context())
			if ok && !pool.allow(tenantID) {
				writeError(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
