package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// RawRecord is one content file as read from the source, before parsing.
type RawRecord struct {
	// Name is the path of the file relative to the source root.
	Name string
	Data []byte
}

// Loader discovers and reads content files from a filesystem.
//
// It operates on fs.FS so the builder can be exercised against in-memory
// fixtures; the composition root hands it an os.DirFS over the content
// directory.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader over the given filesystem.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load walks the source and returns every content file, in lexical path
// order. The enumeration order is deterministic, which is what makes the
// duplicate-slug first-wins policy reproducible across builds.
//
// Any error reading the source itself is fatal; there are no per-file
// errors at this stage (parse failures are handled later, per record).
func (l *Loader) Load(ctx context.Context) ([]RawRecord, error) {
	var records []RawRecord

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !isContentFile(p) {
			return nil
		}

		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		records = append(records, RawRecord{Name: p, Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan content source: %w", err)
	}

	return records, nil
}

// isContentFile keeps markdown-style content files and skips everything
// else (editor droppings, assets living next to the content).
func isContentFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}
