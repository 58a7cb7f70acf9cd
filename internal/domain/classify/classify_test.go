package classify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artechoes/internal/domain"
)

var (
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}
)

func writeTemp(t *testing.T, name string, data []byte) domain.UploadedFile {
	t.Helper()
	p := filepath.Join(t.TempDir(), "upload-"+name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return domain.UploadedFile{OriginalName: name, TempPath: p, Size: int64(len(data))}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Oil Painting":     "oil-painting",
		"  photography.\n": "photography",
		"pop_art":          "pop-art",
		"`sketch`":         "sketch",
		"uncategorized":    "uncategorized",
		"cubism":           "",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestLabels(t *testing.T) {
	labels := Labels()
	assert.Len(t, labels, len(Vocabulary)+1)
	assert.Equal(t, Fallback, labels[len(labels)-1])
	for _, l := range labels {
		assert.True(t, IsKnown(l), l)
	}
}

func TestHeuristic_Keywords(t *testing.T) {
	h := NewHeuristic()
	ctx := context.Background()

	cases := []struct {
		name string
		want string
	}{
		{"Sunset.jpg", "photography"},
		{"IMG_2041.JPG", "photography"},
		{"my-watercolor-study.png", "watercolor"},
		{"Oil on canvas.png", "oil-painting"},
		{"charcoal_sketch.png", "sketch"},
		{"bronze statue.png", "sculpture"},
		{"abstract-blue.png", "abstract-art"},
		{"linocut print.png", "printmaking"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, err := h.Classify(ctx, writeTemp(t, tc.name, pngBytes))
			require.NoError(t, err)
			assert.Equal(t, tc.want, label)
		})
	}
}

func TestHeuristic_FallsBackOnContentType(t *testing.T) {
	h := NewHeuristic()
	ctx := context.Background()

	label, err := h.Classify(ctx, writeTemp(t, "untitled.bin", jpegBytes))
	require.NoError(t, err)
	assert.Equal(t, "photography", label)

	label, err = h.Classify(ctx, writeTemp(t, "untitled.bin", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "digital-art", label)

	label, err = h.Classify(ctx, writeTemp(t, "notes.txt", []byte("plain text")))
	require.NoError(t, err)
	assert.Equal(t, Fallback, label)
}

func TestHeuristic_Deterministic(t *testing.T) {
	h := NewHeuristic()
	file := writeTemp(t, "Sunset.jpg", jpegBytes)

	first, err := h.Classify(context.Background(), file)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := h.Classify(context.Background(), file)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.True(t, IsKnown(first))
}

func TestHeuristic_UnreadableFile(t *testing.T) {
	h := NewHeuristic()
	_, err := h.Classify(context.Background(), domain.UploadedFile{
		OriginalName: "gone.jpg",
		TempPath:     filepath.Join(t.TempDir(), "missing"),
	})
	assert.ErrorIs(t, err, ErrClassification)
}

type fakeGenerator struct {
	answer string
	err    error
	calls  int
	parts  []genai.Part
}

func (f *fakeGenerator) generate(_ context.Context, parts ...genai.Part) (string, error) {
	f.calls++
	f.parts = parts
	return f.answer, f.err
}

func TestGemini_Classify(t *testing.T) {
	gen := &fakeGenerator{answer: "Oil Painting\n"}
	g := &Gemini{gen: gen, fallback: NewHeuristic()}

	label, err := g.Classify(context.Background(), writeTemp(t, "untitled.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "oil-painting", label)
	require.Len(t, gen.parts, 2)

	blob, ok := gen.parts[1].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
}

func TestGemini_AnswerOutsideVocabulary(t *testing.T) {
	g := &Gemini{gen: &fakeGenerator{answer: "cubism"}, fallback: NewHeuristic()}

	_, err := g.Classify(context.Background(), writeTemp(t, "x.png", pngBytes))
	assert.ErrorIs(t, err, ErrClassification)
}

func TestGemini_RemoteError(t *testing.T) {
	g := &Gemini{gen: &fakeGenerator{err: errors.New("quota exceeded")}, fallback: NewHeuristic()}

	_, err := g.Classify(context.Background(), writeTemp(t, "x.png", pngBytes))
	assert.ErrorIs(t, err, ErrClassification)
}

func TestGemini_NonImageUsesFallback(t *testing.T) {
	gen := &fakeGenerator{answer: "sketch"}
	g := &Gemini{gen: gen, fallback: NewHeuristic()}

	label, err := g.Classify(context.Background(), writeTemp(t, "statue.obj", []byte("o statue\nv 0 0 0\n")))
	require.NoError(t, err)
	assert.Equal(t, "sculpture", label)
	assert.Zero(t, gen.calls)
}

func TestCached(t *testing.T) {
	var calls atomic.Int32
	answers := []string{"sketch", "collage"}
	inner := Func(func(_ context.Context, _ domain.UploadedFile) (string, error) {
		n := calls.Add(1)
		return answers[(n-1)%2], nil
	})
	c := NewCached(inner)
	ctx := context.Background()

	a := writeTemp(t, "a.png", pngBytes)
	b := writeTemp(t, "b.png", pngBytes) // same bytes, different name

	first, err := c.Classify(ctx, a)
	require.NoError(t, err)
	second, err := c.Classify(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, "sketch", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCached_DoesNotStoreErrors(t *testing.T) {
	fail := true
	inner := Func(func(_ context.Context, _ domain.UploadedFile) (string, error) {
		if fail {
			return "", ErrClassification
		}
		return "collage", nil
	})
	c := NewCached(inner)
	file := writeTemp(t, "a.png", pngBytes)

	_, err := c.Classify(context.Background(), file)
	assert.ErrorIs(t, err, ErrClassification)
	assert.Zero(t, c.Len())

	fail = false
	label, err := c.Classify(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, "collage", label)
}

func TestCached_UnreadableFile(t *testing.T) {
	c := NewCached(NewHeuristic())
	_, err := c.Classify(context.Background(), domain.UploadedFile{TempPath: filepath.Join(t.TempDir(), "nope")})
	assert.ErrorIs(t, err, ErrClassification)
}
