package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/httpserver/handlers"
)

func init() { Register(registerTags) }

func registerTags(r chi.Router, d deps.Deps) {
	r.With(publicMiddlewares(d)...).Get("/api/tags", handlers.Tags(d))
}
