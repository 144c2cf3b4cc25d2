package feed

import (
	"errors"

	"github.com/stupidhair/mediafeed/internal/domain"
)

const (
	// DefaultLimit is the page size used when the caller passes 0.
	DefaultLimit = 20
	// MinLimit and MaxLimit bound the page size. Out-of-range values are
	// rejected, not clamped.
	MinLimit = 1
	MaxLimit = 100
)

// ErrInvalidLimit signals a caller error, distinct from an empty result.
var ErrInvalidLimit = errors.New("limit must be between 1 and 100")

// Page is one bounded slice of a filtered view.
type Page struct {
	Items []*domain.ContentRecord `json:"items"`

	// NextCursor resumes immediately after the last item of this page.
	// Nil on the final page.
	NextCursor *string `json:"nextCursor"`

	HasMore bool `json:"hasMore"`
}

// Paginate slices one page out of a filtered, ordered view.
//
// cursor is the opaque token from a previous page, or empty for the first
// page. A cursor that fails to decode, or that decodes but matches no record
// in this view (visibility changed, record deleted, different filters), is
// treated as "start from the beginning" rather than an error: the feed
// favors graceful degradation over strict rejection.
//
// limit 0 means DefaultLimit; anything else outside [MinLimit, MaxLimit]
// returns ErrInvalidLimit.
//
// For a fixed view, walking pages by feeding back NextCursor yields every
// item exactly once, in view order, ending with HasMore=false and a nil
// NextCursor.
func Paginate(view []*domain.ContentRecord, cursor string, limit int) (Page, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit || limit > MaxLimit {
		return Page{}, ErrInvalidLimit
	}

	start := 0
	if cursor != "" {
		if c, ok := DecodeCursor(cursor); ok {
			if pos := c.position(view); pos >= 0 {
				start = pos + 1
			}
		}
	}

	end := start + limit
	if end > len(view) {
		end = len(view)
	}

	items := view[start:end]
	if items == nil {
		items = []*domain.ContentRecord{}
	}

	page := Page{
		Items:   items,
		HasMore: end < len(view),
	}
	if page.HasMore {
		next := cursorFor(page.Items[len(page.Items)-1]).Encode()
		page.NextCursor = &next
	}
	return page, nil
}
