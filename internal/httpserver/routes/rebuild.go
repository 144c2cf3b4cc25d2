package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/httpserver/handlers"
	"github.com/stupidhair/mediafeed/internal/httpserver/mw"
)

func init() { Register(registerRebuild) }

func registerRebuild(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Post("/api/rebuild", handlers.Rebuild(d))
}
