package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/stupidhair/mediafeed/internal/index"
	"github.com/stupidhair/mediafeed/internal/logger"
)

// Rebuilder owns index rebuilds outside the request path: the optional
// periodic rebuild and the manual trigger fed by the rebuild endpoint.
//
// It never mutates the cache beyond Invalidate+Get, so the snapshot
// semantics stay exactly those of the cache: readers either see the old
// snapshot or the new one, never a partial build.
type Rebuilder struct {
	cache         *index.Cache
	logger        logger.Logger
	interval      time.Duration // 0 disables the periodic rebuild
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewRebuilder creates a rebuilder around the given cache.
func NewRebuilder(cache *index.Cache, log logger.Logger, interval time.Duration, manualTrigger chan struct{}) *Rebuilder {
	return &Rebuilder{
		cache:         cache,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start warms the index once, then serves rebuild triggers until Stop or
// context cancellation. A failing initial build is fatal: an instance that
// cannot read its content source at boot should not come up.
func (rb *Rebuilder) Start(ctx context.Context) error {
	if err := rb.Rebuild(ctx); err != nil {
		return fmt.Errorf("initial index build failed: %w", err)
	}

	var tick <-chan time.Time
	if rb.interval > 0 {
		ticker := time.NewTicker(rb.interval)
		tick = ticker.C
		go func() {
			<-rb.stopCh
			ticker.Stop()
		}()
	}

	go func() {
		for {
			select {
			case <-tick:
				if err := rb.Rebuild(ctx); err != nil {
					rb.logger.Error("periodic index rebuild failed", logger.Error(err))
				}
			case <-rb.manualTrigger:
				rb.logger.Info("manual index rebuild triggered")
				if err := rb.Rebuild(ctx); err != nil {
					rb.logger.Error("manual index rebuild failed", logger.Error(err))
				}
			case <-rb.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the rebuilder.
func (rb *Rebuilder) Stop() {
	close(rb.stopCh)
}

// Rebuild invalidates the cached snapshot and builds a fresh one.
func (rb *Rebuilder) Rebuild(ctx context.Context) error {
	rb.cache.Invalidate()

	idx, err := rb.cache.Get(ctx)
	if err != nil {
		return err
	}

	rb.logger.Info("index rebuilt",
		logger.Int("records", idx.Len()),
		logger.Int("tags", len(idx.Tags())),
		logger.Int("skipped", rb.cache.LastReport().SkippedCount()))
	return nil
}
