// Package modelzip finds 3D model files inside (possibly nested) zip
// archives and inside directories such archives were extracted into.
//
// Order is fixed: entries of an archive are visited in lexicographic order of
// their in-archive path, and a nested archive is searched completely before
// the scan of its parent continues. The first model found wins.
package modelzip

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	ErrNotFound = errors.New("no supported 3D model found")
	ErrCorrupt  = errors.New("corrupt or unsafe archive")
)

// DefaultModelExtensions lists the model formats the gallery viewer can load.
var DefaultModelExtensions = []string{".obj", ".stl", ".fbx", ".dae", ".gltf", ".glb", ".3ds", ".ply"}

// DefaultArchiveExtensions lists entry extensions treated as nested archives.
var DefaultArchiveExtensions = []string{".zip"}

const (
	defaultMaxDepth      = 8
	defaultMaxEntryBytes = 512 << 20
)

// Entry is a model file located inside an archive. Path is relative to the
// outermost archive; a nested archive contributes its path without the
// extension as a directory, e.g. "parts/inner/robot.obj".
type Entry struct {
	Path string
	Data []byte
}

func (e Entry) Name() string { return path.Base(e.Path) }

type Extractor struct {
	ModelExtensions   []string
	ArchiveExtensions []string
	// MaxDepth bounds archive nesting; the outermost archive is depth 1.
	MaxDepth int
	// MaxEntryBytes bounds the decompressed size of any single entry read.
	MaxEntryBytes int64
	// MaxTotalBytes bounds everything decompressed by one search, nested
	// archives included. Zero means MaxEntryBytes.
	MaxTotalBytes int64
}

func NewExtractor(maxDepth int, maxEntryBytes int64) *Extractor {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	if maxEntryBytes <= 0 {
		maxEntryBytes = defaultMaxEntryBytes
	}
	return &Extractor{
		ModelExtensions:   DefaultModelExtensions,
		ArchiveExtensions: DefaultArchiveExtensions,
		MaxDepth:          maxDepth,
		MaxEntryBytes:     maxEntryBytes,
	}
}

// IsModel reports whether name carries a supported model extension.
func (x *Extractor) IsModel(name string) bool {
	return hasExt(name, x.ModelExtensions)
}

// IsArchive reports whether name carries a nested-archive extension.
func (x *Extractor) IsArchive(name string) bool {
	return hasExt(name, x.ArchiveExtensions)
}

// FindModel searches archive bytes for the first supported model and returns
// it as a single-element list.
func (x *Extractor) FindModel(data []byte) ([]Entry, error) {
	b := &budget{remaining: x.totalBytes()}
	entry, err := x.search(data, "", 1, b)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return []Entry{*entry}, nil
}

// budget is the decompressed byte allowance shared by every level of one
// search.
type budget struct {
	remaining int64
}

func (x *Extractor) totalBytes() int64 {
	if x.MaxTotalBytes > 0 {
		return x.MaxTotalBytes
	}
	return x.MaxEntryBytes
}

func (x *Extractor) search(data []byte, prefix string, depth int, b *budget) (*Entry, error) {
	if depth > x.MaxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrCorrupt, x.MaxDepth)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	files := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, `\`, "/")
		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") || isJunk(name) {
			continue
		}
		if !x.IsArchive(name) && !x.IsModel(name) {
			continue
		}
		files = append(files, f)
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	for _, f := range files {
		// entries that are never read are not checked
		name, err := safeEntryPath(f.Name)
		if err != nil {
			return nil, err
		}
		if x.IsArchive(name) {
			nested, err := x.readEntry(f, b)
			if err != nil {
				return nil, err
			}
			found, err := x.search(nested, path.Join(prefix, strings.TrimSuffix(name, path.Ext(name))), depth+1, b)
			if err != nil {
				return nil, err
			}
			if found != nil {
				return found, nil
			}
			continue
		}
		content, err := x.readEntry(f, b)
		if err != nil {
			return nil, err
		}
		return &Entry{Path: path.Join(prefix, name), Data: content}, nil
	}
	return nil, nil
}

// readEntry decompresses f, charging its size against b.
func (x *Extractor) readEntry(f *zip.File, b *budget) ([]byte, error) {
	limit := x.MaxEntryBytes
	if b.remaining < limit {
		limit = b.remaining
	}
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: entry %s exceeds %d bytes", ErrCorrupt, f.Name, limit)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCorrupt, f.Name, err)
	}
	defer rc.Close()

	// the header size can lie, so the read itself is bounded as well
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCorrupt, f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: entry %s exceeds %d bytes", ErrCorrupt, f.Name, limit)
	}
	b.remaining -= int64(len(data))
	return data, nil
}

// isJunk reports archiver metadata such as macOS __MACOSX/ folders and
// AppleDouble "._name" sidecars.
func isJunk(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if seg == "__MACOSX" || strings.HasPrefix(seg, "._") {
			return true
		}
	}
	return false
}

// Extraction describes a server-side extraction.
type Extraction struct {
	// Dir is the output directory, the archive path without its extension.
	Dir string
	// Files are the absolute paths of the model files written.
	Files []string
}

// ExtractFile extracts the first model of the archive at archivePath into a
// directory named after the archive and then deletes the archive. When no
// model is found the archive is left in place.
func (x *Extractor) ExtractFile(archivePath string) (*Extraction, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read archive: %v", ErrCorrupt, err)
	}
	entries, err := x.FindModel(data)
	if err != nil {
		return nil, err
	}

	outDir := OutputDir(archivePath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	out := &Extraction{Dir: outDir}
	for _, e := range entries {
		target := filepath.Join(outDir, filepath.FromSlash(e.Path))
		if !withinDir(outDir, target) {
			return nil, fmt.Errorf("%w: %s escapes output directory", ErrCorrupt, e.Path)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, e.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", target, err)
		}
		out.Files = append(out.Files, target)
	}

	if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove archive: %w", err)
	}
	return out, nil
}

// OutputDir is the deterministic extraction directory of an archive.
func OutputDir(archivePath string) string {
	return strings.TrimSuffix(archivePath, filepath.Ext(archivePath))
}

// Locate walks dir and returns the first supported model file in
// lexicographic order of its slash-separated path relative to dir.
func (x *Extractor) Locate(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, dir)
	}

	var models []string
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == "__MACOSX" {
			return filepath.SkipDir
		}
		if !d.IsDir() && x.IsModel(d.Name()) && !isJunk(d.Name()) {
			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return err
			}
			models = append(models, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", dir, err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	sort.Strings(models)
	return filepath.Join(dir, filepath.FromSlash(models[0])), nil
}

func safeEntryPath(name string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, ":") {
		return "", fmt.Errorf("%w: unsafe entry path %q", ErrCorrupt, name)
	}
	return clean, nil
}

func withinDir(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
