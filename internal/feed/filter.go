package feed

import (
	"strings"

	"github.com/stupidhair/mediafeed/internal/domain"
)

// Query describes one filtered view of the index.
//
// Search, Type and Tag are mutually exclusive base selectors: when more than
// one is set, only the highest-precedence one applies (search > type > tag).
// They are deliberately not AND-composed; the feed surface inherited that
// simplification and keeps it.
type Query struct {
	// Search selects records whose title, description or any tag contains
	// the term, case-insensitively.
	Search string

	// Type selects records of one media type. Empty means unset.
	Type domain.MediaType

	// Tag selects records carrying the tag exactly (case-sensitive).
	Tag string

	// IncludeUnlisted widens the view to unlisted records. Off by default;
	// unlisted content is only reachable by direct slug lookup.
	IncludeUnlisted bool
}

// Select derives the filtered view of records for q, preserving relative
// order. The input is never mutated.
func Select(records []*domain.ContentRecord, q Query) []*domain.ContentRecord {
	keep := q.predicate()

	out := make([]*domain.ContentRecord, 0, len(records))
	for _, rec := range records {
		if !q.IncludeUnlisted && !rec.Public() {
			continue
		}
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// predicate resolves the single active base selector.
func (q Query) predicate() func(*domain.ContentRecord) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		return func(rec *domain.ContentRecord) bool {
			return rec.Matches(term)
		}
	}
	if q.Type != "" {
		return func(rec *domain.ContentRecord) bool {
			return rec.Type == q.Type
		}
	}
	if q.Tag != "" {
		return func(rec *domain.ContentRecord) bool {
			return rec.HasTag(q.Tag)
		}
	}
	return func(*domain.ContentRecord) bool { return true }
}
