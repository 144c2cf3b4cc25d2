package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/httpserver/handlers"
)

func init() { Register(registerMedia) }

func registerMedia(r chi.Router, d deps.Deps) {
	r.With(publicMiddlewares(d)...).Get("/api/media/{slug}", handlers.Media(d))
}
