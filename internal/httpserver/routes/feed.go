package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/httpserver/handlers"
	"github.com/stupidhair/mediafeed/internal/httpserver/mw"
)

func init() { Register(registerFeed) }

func registerFeed(r chi.Router, d deps.Deps) {
	r.With(publicMiddlewares(d)...).Get("/api/feed", handlers.Feed(d))
}

// publicMiddlewares guards the public read surface: optional host
// enforcement plus a per-IP token bucket when rate limiting is enabled.
func publicMiddlewares(d deps.Deps) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}
	if d.RateBurst > 0 {
		mws = append(mws, mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RateRefillPerIPPM,
			TrustProxy:        d.TrustProxy,
		}))
	}
	return mws
}
