package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/httpserver/handlers"
	"github.com/stupidhair/mediafeed/internal/httpserver/mw"
)

func init() { Register(registerRSS) }

func registerRSS(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/feed.xml", handlers.RSS(d))
}
