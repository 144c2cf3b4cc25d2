package feed

import (
	"testing"
	"time"

	"github.com/stupidhair/mediafeed/internal/domain"
)

func rec(slug string, hoursAgo int, typ domain.MediaType, vis domain.Visibility, tags ...string) *domain.ContentRecord {
	return &domain.ContentRecord{
		Slug:       slug,
		Title:      "Title " + slug,
		CreatedAt:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(hoursAgo) * time.Hour),
		Type:       typ,
		Source:     domain.SourceSora,
		Visibility: vis,
		Tags:       tags,
	}
}

// fixture returns records already in index order (newest first).
func fixture() []*domain.ContentRecord {
	return []*domain.ContentRecord{
		rec("aurora", 1, domain.TypeVideo, domain.VisibilityPublic, "sora", "sky"),
		rec("breaker", 2, domain.TypeImage, domain.VisibilityPublic, "sea"),
		rec("cinders", 3, domain.TypeVideo, domain.VisibilityUnlisted, "sora"),
		rec("dunes", 4, domain.TypeGame, domain.VisibilityPublic, "sand", "Sky"),
		rec("ember", 5, domain.TypeVideo, domain.VisibilityPublic, "fire"),
	}
}

func slugs(records []*domain.ContentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Slug
	}
	return out
}

func assertSlugs(t *testing.T, got []*domain.ContentRecord, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", slugs(got), want)
	}
	for i := range want {
		if got[i].Slug != want[i] {
			t.Fatalf("got %v, want %v", slugs(got), want)
		}
	}
}

func TestSelectDefaultIsPublicOnly(t *testing.T) {
	got := Select(fixture(), Query{})
	assertSlugs(t, got, "aurora", "breaker", "dunes", "ember")
}

func TestSelectIncludeUnlisted(t *testing.T) {
	got := Select(fixture(), Query{IncludeUnlisted: true})
	assertSlugs(t, got, "aurora", "breaker", "cinders", "dunes", "ember")
}

func TestSelectByType(t *testing.T) {
	got := Select(fixture(), Query{Type: domain.TypeVideo})
	// cinders is a video but unlisted
	assertSlugs(t, got, "aurora", "ember")

	got = Select(fixture(), Query{Type: domain.TypeVideo, IncludeUnlisted: true})
	assertSlugs(t, got, "aurora", "cinders", "ember")
}

func TestSelectByTagExactCaseSensitive(t *testing.T) {
	got := Select(fixture(), Query{Tag: "sky"})
	assertSlugs(t, got, "aurora") // dunes has "Sky", which must not match

	got = Select(fixture(), Query{Tag: "Sky"})
	assertSlugs(t, got, "dunes")

	got = Select(fixture(), Query{Tag: "nope"})
	assertSlugs(t, got)
}

func TestSelectSearchCaseInsensitive(t *testing.T) {
	// matches title
	got := Select(fixture(), Query{Search: "AURORA"})
	assertSlugs(t, got, "aurora")

	// matches a tag as substring
	got = Select(fixture(), Query{Search: "fir"})
	assertSlugs(t, got, "ember")
}

func TestSelectSearchMatchesDescription(t *testing.T) {
	records := fixture()
	records[1].Description = "Waves crashing on a Volcanic shore"

	got := Select(records, Query{Search: "volcanic"})
	assertSlugs(t, got, "breaker")
}

func TestSelectSearchTakesPrecedenceOverType(t *testing.T) {
	// breaker is an image; a type=video filter alongside search must be
	// ignored, not intersected.
	got := Select(fixture(), Query{Search: "breaker", Type: domain.TypeVideo})
	assertSlugs(t, got, "breaker")
}

func TestSelectTypeTakesPrecedenceOverTag(t *testing.T) {
	got := Select(fixture(), Query{Type: domain.TypeGame, Tag: "fire"})
	assertSlugs(t, got, "dunes")
}

func TestSelectPreservesOrder(t *testing.T) {
	got := Select(fixture(), Query{Search: "title"})
	// every public record's title matches; relative order must be intact
	assertSlugs(t, got, "aurora", "breaker", "dunes", "ember")
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	records := fixture()
	Select(records, Query{Type: domain.TypeVideo})
	assertSlugs(t, records, "aurora", "breaker", "cinders", "dunes", "ember")
}
