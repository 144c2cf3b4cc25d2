package content

import (
	"fmt"

	"go.uber.org/multierr"
)

// Skipped describes one source file excluded from a build.
type Skipped struct {
	Name   string
	Reason error
}

// Report collects the recoverable per-record failures of one build.
// A non-empty report does not mean the build failed; it means some files
// were left out of the index.
type Report struct {
	Scanned int
	Skipped []Skipped
}

func (r *Report) add(name string, reason error) {
	r.Skipped = append(r.Skipped, Skipped{Name: name, Reason: reason})
}

// SkippedCount returns the number of excluded files.
func (r *Report) SkippedCount() int {
	if r == nil {
		return 0
	}
	return len(r.Skipped)
}

// Err combines every skip reason into a single error, or nil when the
// build was clean. Intended for logging, never for failing the build.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var err error
	for _, s := range r.Skipped {
		err = multierr.Append(err, fmt.Errorf("%s: %w", s.Name, s.Reason))
	}
	return err
}
