package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stupidhair/mediafeed/internal/domain"
	"github.com/stupidhair/mediafeed/internal/source/content"
)

func countingBuild(builds *atomic.Int32, delay time.Duration) BuildFunc {
	return func(ctx context.Context) (*Index, *content.Report, error) {
		builds.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		return New([]*domain.ContentRecord{
			rec("only", 0, domain.VisibilityPublic),
		}), &content.Report{Scanned: 1}, nil
	}
}

func TestCacheLazyBuildOnce(t *testing.T) {
	var builds atomic.Int32
	c := NewCache(countingBuild(&builds, 0))

	if builds.Load() != 0 {
		t.Fatal("cache built eagerly, want lazy")
	}

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if builds.Load() != 1 {
		t.Errorf("builds = %d, want 1", builds.Load())
	}
	if first != second {
		t.Error("repeated Get() returned different snapshots")
	}
}

func TestCacheInvalidateRebuilds(t *testing.T) {
	var builds atomic.Int32
	c := NewCache(countingBuild(&builds, 0))

	first, _ := c.Get(context.Background())
	c.Invalidate()
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() after Invalidate() error = %v", err)
	}

	if builds.Load() != 2 {
		t.Errorf("builds = %d, want 2", builds.Load())
	}
	if first == second {
		t.Error("Invalidate() did not produce a fresh snapshot")
	}
}

func TestCacheInvalidateDuringInFlightBuild(t *testing.T) {
	var builds atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	// The first build blocks until released, so an Invalidate can land
	// while it is in flight.
	c := NewCache(func(ctx context.Context) (*Index, *content.Report, error) {
		n := builds.Add(1)
		if n == 1 {
			close(started)
			<-release
		}
		return New([]*domain.ContentRecord{
			rec("only", 0, domain.VisibilityPublic),
		}), &content.Report{Scanned: int(n)}, nil
	})

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		if _, err := c.Get(context.Background()); err != nil {
			t.Errorf("blocked Get() error = %v", err)
		}
	}()

	<-started
	c.Invalidate()
	close(release)
	<-firstDone

	// The build that raced the invalidation must not have cached its
	// snapshot; it was built from pre-invalidation source state.
	if c.Current() != nil {
		t.Fatal("build that raced Invalidate() left its snapshot behind")
	}

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("Get() after Invalidate() error = %v", err)
	}
	if got := builds.Load(); got != 2 {
		t.Errorf("builds = %d, want 2 (Get after Invalidate must rebuild, not reuse the raced build)", got)
	}
	if got := c.LastReport().Scanned; got != 2 {
		t.Errorf("cached report Scanned = %d, want 2 (the rebuild's report)", got)
	}
}

func TestCacheConcurrentGetsShareOneBuild(t *testing.T) {
	var builds atomic.Int32
	c := NewCache(countingBuild(&builds, 50*time.Millisecond))

	const callers = 16
	results := make([]*Index, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			idx, err := c.Get(context.Background())
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}
			results[i] = idx
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Errorf("builds = %d, want exactly 1 in-flight build shared by all callers", builds.Load())
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d observed a different snapshot", i)
		}
	}
}

func TestCacheFailedBuildNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	buildErr := errors.New("source unreadable")

	c := NewCache(func(ctx context.Context) (*Index, *content.Report, error) {
		if fail.Load() {
			return nil, nil, buildErr
		}
		return New(nil), &content.Report{}, nil
	})

	if _, err := c.Get(context.Background()); !errors.Is(err, buildErr) {
		t.Fatalf("Get() error = %v, want %v", err, buildErr)
	}
	if c.Current() != nil {
		t.Fatal("failed build left a snapshot behind")
	}

	// The next Get retries the build.
	fail.Store(false)
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("Get() retry error = %v", err)
	}
}

func TestCacheLastReport(t *testing.T) {
	c := NewCache(func(ctx context.Context) (*Index, *content.Report, error) {
		r := &content.Report{Scanned: 3}
		r.Skipped = append(r.Skipped, content.Skipped{Name: "x.md", Reason: errors.New("bad")})
		return New(nil), r, nil
	})

	if c.LastReport().SkippedCount() != 0 {
		t.Error("LastReport() before any build should be empty")
	}
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := c.LastReport().SkippedCount(); got != 1 {
		t.Errorf("SkippedCount() = %d, want 1", got)
	}
}
