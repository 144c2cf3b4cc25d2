package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stupidhair/mediafeed/internal/domain"
	"github.com/stupidhair/mediafeed/internal/feed"
	"github.com/stupidhair/mediafeed/internal/httpserver/deps"
	"github.com/stupidhair/mediafeed/internal/index"
	"github.com/stupidhair/mediafeed/internal/logger"
	"github.com/stupidhair/mediafeed/internal/source/content"
	"github.com/stupidhair/mediafeed/internal/syndication"
)

func rec(slug string, hoursAgo int, typ domain.MediaType, vis domain.Visibility, tags ...string) *domain.ContentRecord {
	return &domain.ContentRecord{
		Slug:       slug,
		Title:      "Title " + slug,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(-time.Duration(hoursAgo) * time.Hour),
		Type:       typ,
		Source:     domain.SourceSora,
		Visibility: vis,
		Tags:       tags,
	}
}

func fixtureRecords() []*domain.ContentRecord {
	return []*domain.ContentRecord{
		rec("aurora", 1, domain.TypeVideo, domain.VisibilityPublic, "sky"),
		rec("breaker", 2, domain.TypeImage, domain.VisibilityPublic, "sea"),
		rec("cinders", 3, domain.TypeVideo, domain.VisibilityUnlisted, "fire"),
		rec("dunes", 4, domain.TypeImage, domain.VisibilityPublic, "sand", "sky"),
	}
}

func testDeps(t *testing.T) deps.Deps {
	t.Helper()
	return depsWithBuild(t, func(ctx context.Context) (*index.Index, *content.Report, error) {
		return index.New(fixtureRecords()), &content.Report{Scanned: 4}, nil
	})
}

func depsWithBuild(t *testing.T, build index.BuildFunc) deps.Deps {
	t.Helper()
	return deps.Deps{
		Logger:         logger.Nop(),
		StartTime:      time.Now(),
		TimeNow:        time.Now,
		Cache:          index.NewCache(build),
		Syndication:    syndication.NewBuilder(syndication.Site{Title: "test", Link: "http://localhost"}),
		RSSItemLimit:   30,
		RebuildTrigger: make(chan struct{}, 1),
	}
}

func decodePage(t *testing.T, body []byte) feed.Page {
	t.Helper()
	var page feed.Page
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return page
}

func get(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestFeedFirstPage(t *testing.T) {
	rr := get(t, Feed(testDeps(t)), "/api/feed")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	page := decodePage(t, rr.Body.Bytes())

	// Unlisted cinders is excluded from the default view.
	if len(page.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(page.Items))
	}
	if page.Items[0].Slug != "aurora" {
		t.Errorf("first item = %q, want aurora", page.Items[0].Slug)
	}
	if page.HasMore {
		t.Error("HasMore = true for a single-page view")
	}
	if page.NextCursor != nil {
		t.Errorf("NextCursor = %q, want nil", *page.NextCursor)
	}
}

func TestFeedLimitValidation(t *testing.T) {
	d := testDeps(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"non-numeric", "/api/feed?limit=abc", http.StatusBadRequest},
		{"zero", "/api/feed?limit=0", http.StatusBadRequest},
		{"negative", "/api/feed?limit=-5", http.StatusBadRequest},
		{"too large", "/api/feed?limit=101", http.StatusBadRequest},
		{"lower bound", "/api/feed?limit=1", http.StatusOK},
		{"upper bound", "/api/feed?limit=100", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := get(t, Feed(d), tt.target); rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestFeedUnknownType(t *testing.T) {
	rr := get(t, Feed(testDeps(t)), "/api/feed?type=hologram")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestFeedTypeFilter(t *testing.T) {
	rr := get(t, Feed(testDeps(t)), "/api/feed?type=image")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	page := decodePage(t, rr.Body.Bytes())
	if len(page.Items) != 2 || page.Items[0].Slug != "breaker" || page.Items[1].Slug != "dunes" {
		t.Errorf("unexpected image view: %+v", page.Items)
	}
}

func TestFeedCursorWalk(t *testing.T) {
	d := testDeps(t)

	rr := get(t, Feed(d), "/api/feed?limit=2")
	first := decodePage(t, rr.Body.Bytes())
	if !first.HasMore || first.NextCursor == nil {
		t.Fatalf("expected a second page, got %+v", first)
	}

	rr = get(t, Feed(d), "/api/feed?limit=2&cursor="+*first.NextCursor)
	second := decodePage(t, rr.Body.Bytes())
	if len(second.Items) != 1 || second.Items[0].Slug != "dunes" {
		t.Errorf("second page = %+v, want [dunes]", second.Items)
	}
	if second.HasMore {
		t.Error("HasMore = true on the final page")
	}
}

func TestFeedMalformedCursorIsFirstPage(t *testing.T) {
	d := testDeps(t)

	plain := decodePage(t, get(t, Feed(d), "/api/feed").Body.Bytes())
	rr := get(t, Feed(d), "/api/feed?cursor=%25%25garbage")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	withCursor := decodePage(t, rr.Body.Bytes())
	if len(withCursor.Items) != len(plain.Items) {
		t.Errorf("malformed cursor changed the page: %d vs %d items",
			len(withCursor.Items), len(plain.Items))
	}
}

func TestFeedBuildFailure(t *testing.T) {
	d := depsWithBuild(t, func(ctx context.Context) (*index.Index, *content.Report, error) {
		return nil, nil, errors.New("source unavailable")
	})

	rr := get(t, Feed(d), "/api/feed")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

func TestTags(t *testing.T) {
	rr := get(t, Tags(testDeps(t)), "/api/tags")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Sorted, distinct, public records only ("fire" belongs to unlisted cinders).
	want := []string{"sand", "sea", "sky"}
	if len(resp.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", resp.Tags, want)
	}
	for i := range want {
		if resp.Tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", resp.Tags, want)
		}
	}
}

func mediaRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/media/{slug}", Media(d))
	return r
}

func TestMediaFound(t *testing.T) {
	router := mediaRouter(testDeps(t))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/media/aurora", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var got domain.ContentRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Slug != "aurora" {
		t.Errorf("slug = %q, want aurora", got.Slug)
	}
}

func TestMediaUnlistedReachable(t *testing.T) {
	router := mediaRouter(testDeps(t))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/media/cinders", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for unlisted direct link", rr.Code)
	}
}

func TestMediaNotFound(t *testing.T) {
	router := mediaRouter(testDeps(t))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/media/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestRebuildTriggerAndBackpressure(t *testing.T) {
	d := testDeps(t)
	h := Rebuild(d)

	post := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodPost, "/api/rebuild", nil))
		return rr
	}

	if rr := post(); rr.Code != http.StatusAccepted {
		t.Fatalf("first trigger status = %d, want 202", rr.Code)
	}
	if rr := post(); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("pending trigger status = %d, want 429", rr.Code)
	}

	// Draining the channel (what the scheduler does) frees the slot.
	<-d.RebuildTrigger
	if rr := post(); rr.Code != http.StatusAccepted {
		t.Fatalf("post-drain trigger status = %d, want 202", rr.Code)
	}
}

func TestStatusBeforeAndAfterBuild(t *testing.T) {
	d := testDeps(t)

	var before struct {
		Ready   bool `json:"ready"`
		Records int  `json:"records"`
	}
	rr := get(t, Status(d), "/api/status")
	if err := json.Unmarshal(rr.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if before.Ready {
		t.Error("ready before any build")
	}

	if _, err := d.Cache.Get(context.Background()); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	var after struct {
		Ready     bool   `json:"ready"`
		Records   int    `json:"records"`
		Tags      int    `json:"tags"`
		LastBuild string `json:"last_build"`
	}
	rr = get(t, Status(d), "/api/status")
	if err := json.Unmarshal(rr.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !after.Ready || after.Records != 4 || after.Tags != 3 {
		t.Errorf("status after build = %+v", after)
	}
	if _, err := time.Parse(time.RFC3339, after.LastBuild); err != nil {
		t.Errorf("last_build = %q, want RFC 3339: %v", after.LastBuild, err)
	}
}

func TestReadyz(t *testing.T) {
	if rr := get(t, Readyz(testDeps(t)), "/readyz"); rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	failing := depsWithBuild(t, func(ctx context.Context) (*index.Index, *content.Report, error) {
		return nil, nil, errors.New("boom")
	})
	if rr := get(t, Readyz(failing), "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestRSSHandler(t *testing.T) {
	rr := get(t, RSS(testDeps(t)), "/feed.xml")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/rss+xml; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{"<rss", "Title aurora", "Title dunes"} {
		if !strings.Contains(body, want) {
			t.Errorf("rss body missing %q", want)
		}
	}
	if strings.Contains(body, "Title cinders") {
		t.Error("rss body contains unlisted record")
	}
}
