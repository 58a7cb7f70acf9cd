package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Relocator moves ingested files into their final directory.
type Relocator struct {
	resolver *Resolver
	now      func() time.Time
	newID    func() string
}

func NewRelocator(resolver *Resolver) *Relocator {
	return &Relocator{resolver: resolver, now: time.Now, newID: uuid.NewString}
}

// Placement is where a relocated file ended up.
type Placement struct {
	AbsPath string
	RelPath string
}

// Relocate moves tempPath into <root>/<category>/.
func (l *Relocator) Relocate(tempPath, category, originalName string) (*Placement, error) {
	dir, err := l.resolver.CategoryDir(category)
	if err != nil {
		return nil, err
	}
	return l.MoveInto(tempPath, dir, originalName)
}

// MoveInto moves tempPath into dir under a collision-resistant name built
// from a timestamp, a UUID and the sanitized original name.
func (l *Relocator) MoveInto(tempPath, dir, originalName string) (*Placement, error) {
	if _, err := l.resolver.EnsureDir(dir); err != nil {
		return nil, err
	}
	abs := filepath.Join(dir, l.UniqueName(originalName))
	if err := l.resolver.fs.Rename(tempPath, abs); err != nil {
		return nil, fmt.Errorf("%w: move %s: %v", ErrStorage, filepath.Base(tempPath), err)
	}
	rel, err := l.resolver.Relative(abs)
	if err != nil {
		_ = l.resolver.fs.Remove(abs)
		return nil, err
	}
	return &Placement{AbsPath: abs, RelPath: rel}, nil
}

// UniqueName returns "<unixMillis>-<uuid>-<name>".
func (l *Relocator) UniqueName(originalName string) string {
	return fmt.Sprintf("%d-%s-%s", l.now().UnixMilli(), l.newID(), SanitizeFilename(originalName))
}

// SanitizeFilename keeps the base name and extension of an uploaded file
// while dropping anything that could escape a directory or break a URL.
func SanitizeFilename(name string) string {
	name = NormalizeSlashes(name)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, stem)
	if len(stem) > 60 {
		stem = stem[:60]
	}
	if stem == "" || strings.Trim(stem, "_") == "" {
		stem = "file"
	}
	ext = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, ext)
	return stem + ext
}
