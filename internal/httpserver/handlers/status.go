package handlers

import (
	"net/http"
	"time"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
)

type statusResponse struct {
	Ready     bool   `json:"ready"`
	Records   int    `json:"records"`
	Tags      int    `json:"tags"`
	Skipped   int    `json:"skipped"`
	LastBuild string `json:"last_build,omitempty"`
}

// Status reports the state of the current index snapshot without forcing a
// build: record/tag counts, how many source files the last build skipped,
// and when the snapshot was assembled.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{}

		if idx := d.Cache.Current(); idx != nil {
			resp.Ready = true
			resp.Records = idx.Len()
			resp.Tags = len(idx.Tags())
			resp.LastBuild = idx.BuiltAt().Format(time.RFC3339)
		}
		resp.Skipped = d.Cache.LastReport().SkippedCount()

		writeJSON(w, http.StatusOK, resp)
	}
}
