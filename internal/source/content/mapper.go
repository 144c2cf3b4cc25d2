package content

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/stupidhair/mediafeed/internal/domain"
)

// Mapper parses one raw content file into a domain.ContentRecord.
type Mapper struct{}

// NewMapper creates a mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map parses the metadata block and body of a raw record, validates the
// metadata against the record schema, and produces the canonical record.
// Every returned error is recoverable at the build level: it fails this
// record only.
func (m *Mapper) Map(raw RawRecord) (*domain.ContentRecord, error) {
	var meta recordMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw.Data), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}

	createdAt, err := parseTimestamp(meta.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt %q: %w", meta.CreatedAt, err)
	}

	rec := &domain.ContentRecord{
		Slug:        Slugify(raw.Name),
		Title:       meta.Title,
		CreatedAt:   createdAt,
		Type:        domain.MediaType(meta.Type),
		Source:      domain.SourceSora,
		Visibility:  domain.VisibilityPublic,
		Tags:        append([]string(nil), meta.Tags...),
		Description: meta.Description,
		Assets:      mapAssets(meta.Assets),
		Body:        string(body),
	}

	if meta.Source != "" {
		rec.Source = domain.Source(meta.Source)
	}
	if meta.Visibility != "" {
		rec.Visibility = domain.Visibility(meta.Visibility)
	}
	if sm := meta.SourceMeta; sm != nil {
		rec.SourceMeta = &domain.SourceMeta{
			Username: sm.Username,
			OriginID: sm.OriginID,
			Prompt:   sm.Prompt,
			Model:    sm.Model,
		}
	}

	if rec.Slug == "" {
		return nil, fmt.Errorf("file name %q yields an empty slug", raw.Name)
	}

	return rec, nil
}

func mapAssets(a assetsMeta) domain.Assets {
	out := domain.Assets{
		Poster:          a.Poster,
		Src:             a.Src,
		Width:           a.Width,
		Height:          a.Height,
		DurationSeconds: a.Duration,
		EmbedURL:        a.EmbedURL,
	}
	for _, v := range a.Variants {
		out.Variants = append(out.Variants, domain.AssetVariant{
			URL:      v.URL,
			MimeType: v.MimeType,
		})
	}
	return out
}

// Slugify derives a record's identity from its source file name: the base
// name without extension, lowercased, with runs of non-alphanumerics
// collapsed to single hyphens and leading/trailing hyphens stripped.
//
// Example: "content/My Clip (v2).mdx" -> "my-clip-v2"
func Slugify(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.ToLower(base)

	var b strings.Builder
	b.Grow(len(base))
	lastHyphen := true // suppresses a leading hyphen
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
