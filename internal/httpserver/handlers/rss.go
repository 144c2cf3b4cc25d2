package handlers

import (
	"net/http"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/logger"
)

// RSS serves the syndication feed: the newest public records in the same
// order the paginated feed would return them.
func RSS(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := d.Cache.Get(r.Context())
		if err != nil {
			d.Logger.Error("index build failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "content index unavailable")
			return
		}

		xml, err := d.Syndication.RSS(idx.Public(), d.RSSItemLimit)
		if err != nil {
			d.Logger.Error("rss render failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "feed unavailable")
			return
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = w.Write([]byte(xml))
	}
}
