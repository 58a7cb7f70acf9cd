package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrStorage = errors.New("storage error")

const (
	ThreeDDir     = "3d-art"
	ThumbnailsDir = "thumbnails"
	ModelsDir     = "models"
	ProfilePicDir = "profile-pics"
	IngestDir     = ".ingest"

	DefaultUploadsDir = "uploads"
)

// Resolver maps categories and logical areas onto directories under the
// uploads root and turns absolute paths back into the relative form stored
// in the database.
type Resolver struct {
	fs      FS
	root    string // absolute uploads root
	baseDir string // absolute directory relative paths are computed against
}

// NewResolver builds a resolver for uploadsRoot. Relative roots are taken
// relative to baseDir, normally the process working directory.
func NewResolver(fsys FS, baseDir, uploadsRoot string) (*Resolver, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve base dir: %v", ErrStorage, err)
	}
	root := uploadsRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(absBase, root)
	}
	return &Resolver{fs: fsys, root: filepath.Clean(root), baseDir: absBase}, nil
}

func (r *Resolver) Root() string { return r.root }

func (r *Resolver) BaseDir() string { return r.baseDir }

func (r *Resolver) FS() FS { return r.fs }

// EnsureDir creates dir if missing. Calling it repeatedly is harmless.
func (r *Resolver) EnsureDir(dir string) (string, error) {
	if err := r.fs.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrStorage, dir, err)
	}
	return dir, nil
}

// CategoryDir returns (and creates) <root>/<category>.
func (r *Resolver) CategoryDir(category string) (string, error) {
	return r.EnsureDir(filepath.Join(r.root, CategorySegment(category)))
}

// ThreeDDir returns (and creates) <root>/3d-art/<area>.
func (r *Resolver) ThreeDDir(area string) (string, error) {
	return r.EnsureDir(filepath.Join(r.root, ThreeDDir, area))
}

func (r *Resolver) ProfilePicDir() (string, error) {
	return r.EnsureDir(filepath.Join(r.root, ProfilePicDir))
}

// IngestDir is where multipart files land before the pipeline moves them.
// It sits under the uploads root so the final move is a same-device rename.
func (r *Resolver) IngestDir() (string, error) {
	return r.EnsureDir(filepath.Join(r.root, IngestDir))
}

// Relative converts an absolute path into the stored form: relative to the
// base directory, forward slashes only.
func (r *Resolver) Relative(absPath string) (string, error) {
	rel, err := filepath.Rel(r.baseDir, absPath)
	if err != nil {
		return "", fmt.Errorf("%w: relative path for %s: %v", ErrStorage, absPath, err)
	}
	return NormalizeSlashes(rel), nil
}

// Absolute resolves a stored relative path back onto the filesystem.
func (r *Resolver) Absolute(relPath string) string {
	return filepath.Join(r.baseDir, filepath.FromSlash(NormalizeSlashes(relPath)))
}

// Within reports whether absPath lies inside the uploads root.
func (r *Resolver) Within(absPath string) bool {
	rel, err := filepath.Rel(r.root, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// NormalizeSlashes rewrites every backslash as a forward slash, whatever the
// host separator is.
func NormalizeSlashes(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}

// CategorySegment turns a category label into a single safe directory name:
// lower case, [a-z0-9_-] only. Vocabulary labels map onto themselves.
func CategorySegment(category string) string {
	seg := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(category))
	seg = strings.Trim(seg, "-")
	if seg == "" {
		return "uncategorized"
	}
	return seg
}
