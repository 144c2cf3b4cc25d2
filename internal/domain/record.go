package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaType classifies what kind of asset a record points at.
type MediaType string

const (
	TypeVideo MediaType = "video"
	TypeImage MediaType = "image"
	TypeGame  MediaType = "game"
	TypeOther MediaType = "other"
)

// MediaTypes returns every valid media type. This list is the single
// source of truth; parsing and schema validation both derive from it.
func MediaTypes() []MediaType {
	return []MediaType{TypeVideo, TypeImage, TypeGame, TypeOther}
}

// ParseMediaType validates a raw string against the known media types.
func ParseMediaType(s string) (MediaType, error) {
	for _, t := range MediaTypes() {
		if MediaType(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// Source indicates where a record originated.
type Source string

const (
	SourceSora     Source = "sora"
	SourceUpload   Source = "upload"
	SourceExternal Source = "external"
)

// Sources returns every valid source.
func Sources() []Source {
	return []Source{SourceSora, SourceUpload, SourceExternal}
}

// ParseSource validates a raw string against the known sources.
func ParseSource(s string) (Source, error) {
	for _, src := range Sources() {
		if Source(s) == src {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// Visibility controls whether a record shows up in listings.
// Unlisted records are still addressable by direct slug lookup.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// Visibilities returns every valid visibility.
func Visibilities() []Visibility {
	return []Visibility{VisibilityPublic, VisibilityUnlisted}
}

// ParseVisibility validates a raw string against the known visibilities.
func ParseVisibility(s string) (Visibility, error) {
	for _, v := range Visibilities() {
		if Visibility(s) == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown visibility %q", s)
}

// AssetVariant is an alternate encoding of the primary asset.
type AssetVariant struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType,omitempty"`
}

// Assets is the structured bag of media pointers attached to a record.
// All fields are optional; no cross-field invariant is enforced.
type Assets struct {
	Poster          string         `json:"poster,omitempty"`
	Src             string         `json:"src,omitempty"`
	Variants        []AssetVariant `json:"variants,omitempty"`
	Width           int            `json:"width,omitempty"`
	Height          int            `json:"height,omitempty"`
	DurationSeconds float64        `json:"durationSeconds,omitempty"`
	EmbedURL        string         `json:"embedUrl,omitempty"`
}

// SourceMeta carries provenance details for generated content.
// Only meaningful when the record's Source is sora.
type SourceMeta struct {
	Username string `json:"username,omitempty"`
	OriginID string `json:"originId,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Model    string `json:"model,omitempty"`
}

// ContentRecord is the canonical unit of content.
//
// It is NOT tied to any on-disk format. The content source pipeline parses
// files into this structure; everything downstream (index, pagination,
// syndication) only ever sees ContentRecords.
//
// A ContentRecord is uniquely identified by its Slug, derived from the
// source file name at build time.
type ContentRecord struct {
	// Slug is the canonical unique identifier, derived deterministically
	// from the source file name.
	Slug string `json:"slug"`

	// Title is required and non-empty.
	Title string `json:"title"`

	// CreatedAt is the primary sort key (newest first).
	CreatedAt time.Time `json:"createdAt"`

	Type       MediaType  `json:"type"`
	Source     Source     `json:"source"`
	Visibility Visibility `json:"visibility"`

	// Tags preserve insertion order for display; membership checks do not
	// depend on order.
	Tags []string `json:"tags,omitempty"`

	Description string `json:"description,omitempty"`

	Assets Assets `json:"assets"`

	SourceMeta *SourceMeta `json:"sourceMetadata,omitempty"`

	// Body is the free-form rich-text content after the metadata block.
	Body string `json:"-"`
}

// Public reports whether the record appears in default listings.
func (r *ContentRecord) Public() bool {
	return r.Visibility == VisibilityPublic
}

// HasTag reports whether the record carries the tag (exact, case-sensitive).
func (r *ContentRecord) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches reports whether the lowercased term appears in the record's title,
// description, or any tag. Callers must pass an already-lowercased term.
func (r *ContentRecord) Matches(lowerTerm string) bool {
	if strings.Contains(strings.ToLower(r.Title), lowerTerm) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), lowerTerm) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), lowerTerm) {
			return true
		}
	}
	return false
}

// Before reports whether r sorts before other in the canonical index order:
// CreatedAt descending, ties broken by Slug ascending.
func (r *ContentRecord) Before(other *ContentRecord) bool {
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.After(other.CreatedAt)
	}
	return r.Slug < other.Slug
}
