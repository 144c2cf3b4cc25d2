package handlers

import (
	"net/http"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports readiness. The first probe after startup (or after an
// invalidation) triggers the index build through the cache; a failing build
// keeps the instance out of rotation.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Cache.Get(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
