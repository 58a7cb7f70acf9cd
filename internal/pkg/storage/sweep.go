package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// SweepIngest deletes ingest files last modified before cutoff. Those are
// left behind only when the process died mid-request.
func (r *Resolver) SweepIngest(cutoff time.Time) (int, error) {
	dir := filepath.Join(r.root, IngestDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: read ingest dir: %v", ErrStorage, err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		info, err := r.fs.Stat(p)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if e.IsDir() {
			err = r.fs.RemoveAll(p)
		} else {
			err = r.fs.Remove(p)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("%w: %v", ErrStorage, errors.Join(errs...))
	}
	return removed, nil
}
