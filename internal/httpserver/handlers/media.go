package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/logger"
)

// Media serves a single record by slug. Unlisted records are reachable
// here (direct link is exactly what "unlisted" permits); only a missing
// slug yields 404.
func Media(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		idx, err := d.Cache.Get(r.Context())
		if err != nil {
			d.Logger.Error("index build failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "content index unavailable")
			return
		}

		rec, ok := idx.Get(slug)
		if !ok {
			writeError(w, http.StatusNotFound, "no such media")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
