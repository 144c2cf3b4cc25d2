package syndication

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/stupidhair/mediafeed/internal/domain"
)

// Site describes the channel-level metadata of the syndicated feed.
type Site struct {
	Title       string
	Link        string
	Description string
	Author      string
}

// Builder renders the public index into RSS 2.0.
//
// It consumes the same public ordering the pagination engine serves, so the
// first N feed items always match the first N items of an unfiltered page
// walk.
type Builder struct {
	site Site
	md   goldmark.Markdown
}

// NewBuilder creates a feed builder for the given site.
func NewBuilder(site Site) *Builder {
	return &Builder{
		site: site,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// RSS renders at most limit records into an RSS 2.0 document. Records must
// already be in public index order (newest first).
func (b *Builder) RSS(records []*domain.ContentRecord, limit int) (string, error) {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	f := &feeds.Feed{
		Title:       b.site.Title,
		Link:        &feeds.Link{Href: b.site.Link},
		Description: b.site.Description,
		Author:      &feeds.Author{Name: b.site.Author},
		Updated:     time.Now(),
	}
	if len(records) > 0 {
		f.Created = records[len(records)-1].CreatedAt
	}

	for _, rec := range records {
		desc, err := b.itemDescription(rec)
		if err != nil {
			return "", fmt.Errorf("render %s: %w", rec.Slug, err)
		}

		f.Items = append(f.Items, &feeds.Item{
			Id:          b.itemLink(rec),
			Title:       rec.Title,
			Link:        &feeds.Link{Href: b.itemLink(rec)},
			Description: desc,
			Created:     rec.CreatedAt,
		})
	}

	return f.ToRss()
}

// itemDescription prefers the markdown body rendered to HTML, falling back
// to the plain description when the body is empty.
func (b *Builder) itemDescription(rec *domain.ContentRecord) (string, error) {
	body := strings.TrimSpace(rec.Body)
	if body == "" {
		return rec.Description, nil
	}

	var buf bytes.Buffer
	if err := b.md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (b *Builder) itemLink(rec *domain.ContentRecord) string {
	return strings.TrimRight(b.site.Link, "/") + "/m/" + rec.Slug
}
