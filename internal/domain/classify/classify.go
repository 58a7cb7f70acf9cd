// Package classify assigns a gallery category to an uploaded file.
//
// Every strategy returns a member of Vocabulary or Fallback and must be
// deterministic: the same file always yields the same label.
package classify

import (
	"context"
	"errors"
	"strings"

	"artechoes/internal/domain"
)

var ErrClassification = errors.New("classification failed")

// Fallback is returned when nothing more specific matches.
const Fallback = "uncategorized"

// Vocabulary is the closed set of labels a classifier may produce.
var Vocabulary = []string{
	"oil-painting",
	"watercolor",
	"sketch",
	"digital-art",
	"sculpture",
	"photography",
	"mixed-media",
	"collage",
	"abstract-art",
	"impressionism",
	"pop-art",
	"minimalism",
	"conceptual-art",
	"printmaking",
}

type Classifier interface {
	Classify(ctx context.Context, file domain.UploadedFile) (string, error)
}

// Func adapts a plain function to Classifier.
type Func func(ctx context.Context, file domain.UploadedFile) (string, error)

func (f Func) Classify(ctx context.Context, file domain.UploadedFile) (string, error) {
	return f(ctx, file)
}

// Labels returns the vocabulary followed by the fallback label.
func Labels() []string {
	out := make([]string, 0, len(Vocabulary)+1)
	out = append(out, Vocabulary...)
	return append(out, Fallback)
}

// IsKnown reports whether label is a vocabulary label or the fallback.
func IsKnown(label string) bool {
	if label == Fallback {
		return true
	}
	for _, v := range Vocabulary {
		if v == label {
			return true
		}
	}
	return false
}

// Normalize maps free-form text such as "Oil Painting" or "oil_painting."
// onto a known label. It returns "" when the text names no known label.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, " \t\r\n.\"'`*")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '_', r == '-':
			return '-'
		default:
			return -1
		}
	}, s)
	if IsKnown(s) {
		return s
	}
	return ""
}
