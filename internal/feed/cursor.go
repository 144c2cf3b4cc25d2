package feed

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stupidhair/mediafeed/internal/domain"
)

// Cursor marks a resume position inside a filtered, sorted view: the
// (createdAt, slug) pair of the last item a previous page returned.
//
// The encoding is an opaque continuation token, not a security boundary: it
// only has to be stable and round-trippable. A malformed token is never an
// error; the engine degrades to the start of the view.
type Cursor struct {
	CreatedAt time.Time
	Slug      string
}

// Encode renders the cursor as a URL-safe opaque string.
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d:%s", c.CreatedAt.UnixNano(), c.Slug)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses an opaque cursor string. The second return value is
// false for anything that does not round-trip from Encode.
func DecodeCursor(s string) (Cursor, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, false
	}

	nanos, slug, found := strings.Cut(string(raw), ":")
	if !found || slug == "" {
		return Cursor{}, false
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return Cursor{}, false
	}

	return Cursor{CreatedAt: time.Unix(0, n).UTC(), Slug: slug}, true
}

// cursorFor builds the continuation cursor for the given record.
func cursorFor(rec *domain.ContentRecord) Cursor {
	return Cursor{CreatedAt: rec.CreatedAt, Slug: rec.Slug}
}

// position finds the index of the record the cursor points at inside the
// filtered view, matching both fields exactly. Returns -1 when the cursor
// references a record no longer present in this view.
func (c Cursor) position(view []*domain.ContentRecord) int {
	for i, rec := range view {
		if rec.Slug == c.Slug && rec.CreatedAt.UnixNano() == c.CreatedAt.UnixNano() {
			return i
		}
	}
	return -1
}
