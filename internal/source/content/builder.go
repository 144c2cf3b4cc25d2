package content

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/stupidhair/mediafeed/internal/domain"
	"github.com/stupidhair/mediafeed/internal/logger"
)

// Builder produces the ordered record collection from a content source.
//
// The build is a pure read: it never writes to the source. It is idempotent;
// two builds over an unchanged source yield element-for-element identical
// output (the loader enumerates in lexical order and the final sort is
// total).
type Builder struct {
	loader *Loader
	mapper *Mapper
	logger logger.Logger
}

// NewBuilder creates a builder over the given source filesystem.
func NewBuilder(fsys fs.FS, log logger.Logger) *Builder {
	return &Builder{
		loader: NewLoader(fsys),
		mapper: NewMapper(),
		logger: log,
	}
}

// Build scans the source and returns every valid record sorted by CreatedAt
// descending, ties broken by Slug ascending.
//
// Failure semantics: an unreadable source is fatal. A file that fails to
// parse or validate, or that collides on slug with an earlier file, is
// excluded and recorded in the report; the build proceeds. On slug
// collisions the first file in enumeration order wins.
func (b *Builder) Build(ctx context.Context) ([]*domain.ContentRecord, *Report, error) {
	raws, err := b.loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("content build: %w", err)
	}

	report := &Report{Scanned: len(raws)}
	records := make([]*domain.ContentRecord, 0, len(raws))
	bySlug := make(map[string]string, len(raws)) // slug -> winning file name

	for _, raw := range raws {
		rec, err := b.mapper.Map(raw)
		if err != nil {
			report.add(raw.Name, err)
			b.logger.Warn("skipping content file",
				logger.String("file", raw.Name),
				logger.Error(err))
			continue
		}

		if winner, dup := bySlug[rec.Slug]; dup {
			report.add(raw.Name, fmt.Errorf("duplicate slug %q (already claimed by %s)", rec.Slug, winner))
			b.logger.Warn("duplicate slug, keeping first occurrence",
				logger.String("slug", rec.Slug),
				logger.String("kept", winner),
				logger.String("dropped", raw.Name))
			continue
		}
		bySlug[rec.Slug] = raw.Name
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Before(records[j])
	})

	return records, report, nil
}
