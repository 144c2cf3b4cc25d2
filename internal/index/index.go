package index

import (
	"sort"
	"time"

	"github.com/stupidhair/mediafeed/internal/domain"
)

// Index is the full validated record collection, sorted by CreatedAt
// descending with slug-ascending tiebreak.
//
// An Index is immutable once built. The cache replaces the whole Index on
// invalidation; readers holding an old snapshot keep using it safely.
type Index struct {
	records []*domain.ContentRecord
	bySlug  map[string]*domain.ContentRecord
	tags    []string
	builtAt time.Time
}

// New wraps an already-sorted record collection (the builder's output
// contract) into an Index, precomputing slug and tag lookups.
func New(records []*domain.ContentRecord) *Index {
	idx := &Index{
		records: records,
		bySlug:  make(map[string]*domain.ContentRecord, len(records)),
		builtAt: time.Now(),
	}

	tagSet := make(map[string]struct{})
	for _, rec := range records {
		idx.bySlug[rec.Slug] = rec
		if !rec.Public() {
			continue
		}
		for _, t := range rec.Tags {
			tagSet[t] = struct{}{}
		}
	}

	idx.tags = make([]string, 0, len(tagSet))
	for t := range tagSet {
		idx.tags = append(idx.tags, t)
	}
	sort.Strings(idx.tags)

	return idx
}

// All returns every record in index order. Callers must not mutate the
// returned slice or the records it points at.
func (i *Index) All() []*domain.ContentRecord {
	return i.records
}

// Public returns the public records in index order. This is the base
// ordering the syndication surface consumes; it matches the pagination
// engine's unfiltered view exactly.
func (i *Index) Public() []*domain.ContentRecord {
	out := make([]*domain.ContentRecord, 0, len(i.records))
	for _, rec := range i.records {
		if rec.Public() {
			out = append(out, rec)
		}
	}
	return out
}

// Get looks up a record by slug, regardless of visibility.
func (i *Index) Get(slug string) (*domain.ContentRecord, bool) {
	rec, ok := i.bySlug[slug]
	return rec, ok
}

// Tags returns the sorted distinct tags across public records.
func (i *Index) Tags() []string {
	return i.tags
}

// Len returns the number of records in the index.
func (i *Index) Len() int {
	return len(i.records)
}

// BuiltAt returns when this snapshot was assembled.
func (i *Index) BuiltAt() time.Time {
	return i.builtAt
}
