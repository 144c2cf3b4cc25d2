package index

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/stupidhair/mediafeed/internal/source/content"
)

// BuildFunc assembles a fresh Index from the content source. It also
// returns the build report so the cache can expose the outcome of the last
// build to the status surface.
type BuildFunc func(ctx context.Context) (*Index, *content.Report, error)

// Cache holds the current Index snapshot with lazy initialization and
// explicit invalidation.
//
// The first Get after startup (or after Invalidate) triggers a build.
// Concurrent Gets during a build share the single in-flight build through
// singleflight instead of scanning the source once per caller, and all of
// them observe the same snapshot. A failed build caches nothing; the next
// Get retries.
//
// Invalidation is tracked by a generation counter. A build only stores its
// snapshot if no Invalidate landed while it ran, and the singleflight key
// carries the generation, so a Get issued after an invalidation starts a
// fresh build instead of joining one that started against the old source
// state.
type Cache struct {
	build BuildFunc

	mu      sync.RWMutex
	gen     uint64
	current *Index
	report  *content.Report

	group singleflight.Group
}

// NewCache creates a cache around the given build function.
func NewCache(build BuildFunc) *Cache {
	return &Cache{build: build}
}

// Get returns the cached Index, building it first if needed.
func (c *Cache) Get(ctx context.Context) (*Index, error) {
	c.mu.RLock()
	idx, gen := c.current, c.gen
	c.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	v, err, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		// A concurrent caller may have finished the build while this one
		// waited on the singleflight slot.
		c.mu.RLock()
		idx := c.current
		c.mu.RUnlock()
		if idx != nil {
			return idx, nil
		}

		idx, report, err := c.build(ctx)
		if err != nil {
			return nil, err
		}

		// Store only if this build's generation is still current. A stale
		// snapshot is still returned to the callers that shared this build,
		// but the next Get rebuilds.
		c.mu.Lock()
		if c.gen == gen {
			c.current = idx
			c.report = report
		}
		c.mu.Unlock()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

// Invalidate drops the snapshot and advances the generation, so the next
// Get rebuilds from source even if a build is in flight right now.
// In-flight readers keep their old snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.gen++
	c.mu.Unlock()
}

// Current returns the snapshot without triggering a build, or nil when no
// build has succeeded yet.
func (c *Cache) Current() *Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// LastReport returns the report of the most recent successful build, or nil.
func (c *Cache) LastReport() *content.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}
