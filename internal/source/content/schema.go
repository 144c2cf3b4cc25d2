package content

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/stupidhair/mediafeed/internal/domain"
)

// recordMeta is the frontmatter envelope of a content file.
//
// Unknown keys are absorbed by the inline map and ignored. CreatedAt stays a
// string here so a bad timestamp is a per-record validation failure instead
// of a YAML decode error that would lose the file name context.
type recordMeta struct {
	Title       string         `yaml:"title"`
	CreatedAt   string         `yaml:"createdAt"`
	Type        string         `yaml:"type"`
	Source      string         `yaml:"source"`
	Visibility  string         `yaml:"visibility"`
	Tags        []string       `yaml:"tags"`
	Description string         `yaml:"description"`
	Assets      assetsMeta     `yaml:"assets"`
	SourceMeta  *sourceMeta    `yaml:"sourceMetadata"`
	Extra       map[string]any `yaml:",inline"`
}

type assetsMeta struct {
	Poster   string        `yaml:"poster"`
	Src      string        `yaml:"src"`
	Variants []variantMeta `yaml:"variants"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Duration float64       `yaml:"duration"`
	EmbedURL string        `yaml:"embedUrl"`
}

type variantMeta struct {
	URL      string `yaml:"url"`
	MimeType string `yaml:"type"`
}

type sourceMeta struct {
	Username string `yaml:"username"`
	OriginID string `yaml:"originId"`
	Prompt   string `yaml:"prompt"`
	Model    string `yaml:"model"`
}

// timestampLayouts are the accepted createdAt formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an ISO-8601-ish createdAt value.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("must be an ISO-8601 timestamp")
}

var isTimestamp = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil // Required is enforced separately
	}
	_, err := parseTimestamp(s)
	return err
})

// urlOrPath accepts absolute URLs and site-relative paths. Portfolio assets
// regularly live under the site root ("/media/clip.mp4"), which is.URL
// rejects on its own.
var urlOrPath = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" || strings.HasPrefix(s, "/") {
		return nil
	}
	return is.URL.Validate(s)
})

// enumValues adapts a domain enum list into validation.In arguments, so the
// schema and the domain parse functions always agree on the valid values.
func enumValues[T ~string](vals []T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// Validate checks the envelope against the record schema. Enum values are
// validated here so an unknown type or source fails the single record, not
// the build.
func (m recordMeta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.CreatedAt, validation.Required, isTimestamp),
		validation.Field(&m.Type, validation.Required, validation.In(enumValues(domain.MediaTypes())...)),
		validation.Field(&m.Source, validation.In(enumValues(domain.Sources())...)),
		validation.Field(&m.Visibility, validation.In(enumValues(domain.Visibilities())...)),
		validation.Field(&m.Assets),
	)
}

func (a assetsMeta) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Poster, urlOrPath),
		validation.Field(&a.Src, urlOrPath),
		validation.Field(&a.EmbedURL, urlOrPath),
		validation.Field(&a.Width, validation.Min(0)),
		validation.Field(&a.Height, validation.Min(0)),
		validation.Field(&a.Duration, validation.Min(0.0)),
	)
}
