package mw

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/stupidhair/mediafeed/internal/utils"
)

// RateLimitConfig tunes the per-IP token bucket guarding the public feed
// surface.
type RateLimitConfig struct {
	Burst             int  // bucket capacity
	RefillPerIPPerMin int  // tokens restored per minute
	TrustProxy        bool // resolve the client IP from proxy headers

	// IdleTTL controls how long an idle bucket survives before the
	// periodic sweep drops it. Zero means 15 minutes.
	IdleTTL time.Duration
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// limiter is a plain mutex-guarded bucket map. The feed surface sees a
// modest number of distinct client IPs, so one lock is simpler and fast
// enough; buckets idle past IdleTTL are swept on the next request that
// arrives a sweep interval later.
type limiter struct {
	cap     float64
	perSec  float64
	idleTTL time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillPerIPPerMin < 1 {
		cfg.RefillPerIPPerMin = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &limiter{
		cap:       float64(cfg.Burst),
		perSec:    float64(cfg.RefillPerIPPerMin) / 60.0,
		idleTTL:   cfg.IdleTTL,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// take consumes one token for key. When the bucket is empty it reports the
// whole seconds until the next token accrues.
func (l *limiter) take(key string, now time.Time) (ok bool, remaining, retryAfterSec int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= time.Minute {
		for ip, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.buckets, ip)
			}
		}
		l.lastSweep = now
	}

	b := l.buckets[key]
	if b == nil {
		b = &bucket{tokens: l.cap, lastSeen: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.lastSeen).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.perSec
		if b.tokens > l.cap {
			b.tokens = l.cap
		}
	}
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}

	sec := int((1 - b.tokens) / l.perSec)
	if sec < 1 {
		sec = 1
	}
	return false, 0, sec
}

// RateLimit rejects clients that exhaust their token bucket with 429 and a
// Retry-After hint.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limitStr := strconv.Itoa(cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r, cfg.TrustProxy)

			ok, remaining, retry := l.take(key, time.Now())
			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
