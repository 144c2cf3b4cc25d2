package deps

import (
	"time"

	"github.com/stupidhair/mediafeed/internal/index"
	"github.com/stupidhair/mediafeed/internal/logger"
	"github.com/stupidhair/mediafeed/internal/syndication"
)

// Deps carries everything the route handlers need. The index cache is
// injected here (not reached through a package global) so tests can stand
// up isolated servers over fixture content.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	TimeNow func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to hit ops/admin endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	RateBurst         int // feed-surface rate limit burst (0 = disabled)
	RateRefillPerIPPM int

	Cache          *index.Cache         // lazy single-flight index cache
	Syndication    *syndication.Builder // RSS renderer over the public index
	RSSItemLimit   int
	RebuildTrigger chan struct{} // manual index rebuild trigger
}
