package handlers

import (
	"net/http"
	"strconv"

	"github.com/stupidhair/mediafeed/internal/domain"
	"github.com/stupidhair/mediafeed/internal/feed"
	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/logger"
)

// Feed serves one page of the content feed.
//
// Query parameters: cursor (opaque, optional), limit (1-100, default 20),
// type, tag, search. search/type/tag are mutually exclusive base selectors;
// when several are present only the highest-precedence one applies
// (search > type > tag).
//
// A limit outside [1,100] is rejected with 400 rather than clamped. A
// malformed or stale cursor is not an error: pagination restarts from the
// beginning of the filtered view.
func Feed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		limit := feed.DefaultLimit
		if raw := params.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "limit must be an integer")
				return
			}
			if n < feed.MinLimit || n > feed.MaxLimit {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		query := feed.Query{
			Search: params.Get("search"),
			Tag:    params.Get("tag"),
		}
		if raw := params.Get("type"); raw != "" {
			mt, err := domain.ParseMediaType(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			query.Type = mt
		}

		idx, err := d.Cache.Get(r.Context())
		if err != nil {
			d.Logger.Error("index build failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "content index unavailable")
			return
		}

		view := feed.Select(idx.All(), query)
		page, err := feed.Paginate(view, params.Get("cursor"), limit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, page)
	}
}
