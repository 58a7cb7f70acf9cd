package classify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"artechoes/internal/domain"
)

type keywordRule struct {
	label    string
	keywords []string
}

// rules are tried in order; the first rule with a keyword present among the
// filename tokens wins.
var rules = []keywordRule{
	{"watercolor", []string{"watercolor", "watercolour", "aquarelle", "gouache"}},
	{"oil-painting", []string{"oil", "oils", "canvas"}},
	{"sketch", []string{"sketch", "sketches", "drawing", "pencil", "charcoal", "doodle", "ink"}},
	{"sculpture", []string{"sculpture", "statue", "bust", "clay", "bronze", "marble", "carving"}},
	{"collage", []string{"collage"}},
	{"mixed-media", []string{"mixed", "mixedmedia", "assemblage"}},
	{"printmaking", []string{"print", "linocut", "woodcut", "etching", "screenprint", "lithograph", "engraving"}},
	{"impressionism", []string{"impressionism", "impressionist", "monet", "renoir"}},
	{"pop-art", []string{"pop", "popart", "warhol", "comic"}},
	{"minimalism", []string{"minimal", "minimalism", "minimalist"}},
	{"abstract-art", []string{"abstract", "abstraction", "geometric"}},
	{"conceptual-art", []string{"concept", "conceptual", "installation"}},
	{"digital-art", []string{"digital", "render", "procreate", "pixel", "vector", "illustration", "3d"}},
	{"photography", []string{"photo", "photograph", "sunset", "sunrise", "landscape", "portrait", "street", "img", "dsc", "dscn"}},
}

// Heuristic labels a file from keywords in its original name and, failing
// that, from its sniffed content type.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Classify(_ context.Context, file domain.UploadedFile) (string, error) {
	mt, err := mimetype.DetectFile(file.TempPath)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrClassification, file.OriginalName, err)
	}

	if label := matchKeywords(file.OriginalName); label != "" {
		return label, nil
	}
	return labelForType(mt), nil
}

func matchKeywords(name string) string {
	tokens := make(map[string]struct{})
	for _, t := range tokenize(name) {
		tokens[t] = struct{}{}
	}
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if _, ok := tokens[kw]; ok {
				return rule.label
			}
		}
	}
	return ""
}

func tokenize(name string) []string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.FieldsFunc(strings.ToLower(base), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

func labelForType(mt *mimetype.MIME) string {
	switch {
	case mt.Is("image/jpeg"), mt.Is("image/heic"), mt.Is("image/heif"), mt.Is("image/tiff"):
		return "photography"
	case mt.Is("image/svg+xml"), mt.Is("image/png"), mt.Is("image/webp"), mt.Is("image/gif"), mt.Is("image/avif"):
		return "digital-art"
	case mt.Is("application/pdf"):
		return "printmaking"
	case strings.HasPrefix(mt.String(), "model/"), mt.Is("application/zip"), mt.Is("application/vnd.ms-pki.stl"):
		return "sculpture"
	default:
		return Fallback
	}
}
