package handlers

import (
	"net/http"

	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/logger"
)

// Rebuild triggers an explicit index rebuild. The actual invalidation and
// rebuild happen on the scheduler goroutine draining the trigger channel,
// so the endpoint returns immediately: 202 when the trigger was accepted,
// 429 when a rebuild is already pending.
func Rebuild(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.RebuildTrigger <- struct{}{}:
			d.Logger.Info("manual index rebuild triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("rebuild triggered\n"))
		default:
			d.Logger.Warn("index rebuild already pending",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("rebuild already pending, please wait\n"))
		}
	}
}
