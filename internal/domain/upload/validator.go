package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind selects the allow-list a file is validated against.
type Kind int

const (
	// KindImage accepts any image/* type (3D thumbnails).
	KindImage Kind = iota
	// KindProfileImage accepts the explicit profile picture allow-list.
	KindProfileImage
	// KindModel accepts 3D model formats and zipped model bundles.
	KindModel
	// KindArtwork accepts images, PDF and everything KindModel accepts.
	KindArtwork
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindProfileImage:
		return "profile image"
	case KindModel:
		return "3D model"
	case KindArtwork:
		return "artwork"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var profileImageTypes = setOf(
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/jpg",
	"image/webp",
	"image/svg+xml",
	"image/tiff",
	"image/bmp",
	"image/x-icon",
	"image/vnd.microsoft.icon",
	"image/vnd.wap.wbmp",
	"image/apng",
	"image/avif",
	"image/heic",
	"image/heif",
	"image/flif",
	"image/x-portable-pixmap",
	"image/x-portable-anymap",
	"image/x-portable-bitmap",
	"image/x-xbitmap",
	"image/x-xbm",
	"image/x-ico",
	"image/x-win-bitmap",
	"image/x-jg",
	"image/x-jng",
)

var archiveTypes = setOf(
	"application/zip",
	"application/x-zip-compressed",
	"application/x-zip",
)

var modelTypes = setOf(
	"model/obj",
	"model/stl",
	"model/fbx",
	"model/glb",
	"model/gltf",
	"model/gltf+json",
	"model/gltf-binary",
	"application/octet-stream",
	"application/3mf",
	"application/vnd.ms-pki.stl",
	"application/zip",
	"application/x-zip-compressed",
	"application/x-zip",
)

// Validate reports whether a file declared as mediaType may be uploaded as
// kind. Parameters such as "; charset=" are ignored.
func Validate(mediaType string, kind Kind) error {
	mt := normalizeMediaType(mediaType)
	if mt == "" {
		return fmt.Errorf("%w: missing media type", ErrInvalidFileType)
	}

	var ok bool
	switch kind {
	case KindImage:
		ok = isImage(mt)
	case KindProfileImage:
		_, ok = profileImageTypes[mt]
	case KindModel:
		_, ok = modelTypes[mt]
	case KindArtwork:
		_, isModel := modelTypes[mt]
		ok = isImage(mt) || mt == "application/pdf" || isModel
	}
	if !ok {
		return fmt.Errorf("%w: %s is not allowed for %s uploads", ErrInvalidFileType, mt, kind)
	}
	return nil
}

// IsArchive reports whether an uploaded model is a zipped bundle.
func IsArchive(name, mediaType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".zip") {
		return true
	}
	_, ok := archiveTypes[normalizeMediaType(mediaType)]
	return ok
}

func isImage(mt string) bool {
	return strings.HasPrefix(mt, "image/") && len(mt) > len("image/")
}

func normalizeMediaType(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}
