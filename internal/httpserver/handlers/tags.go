package handlers

import (
	"net/http"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/logger"
)

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// Tags returns the sorted distinct tags across public records.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := d.Cache.Get(r.Context())
		if err != nil {
			d.Logger.Error("index build failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "content index unavailable")
			return
		}

		tags := idx.Tags()
		if tags == nil {
			tags = []string{}
		}
		writeJSON(w, http.StatusOK, tagsResponse{Tags: tags})
	}
}
