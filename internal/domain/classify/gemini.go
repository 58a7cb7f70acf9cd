package classify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"artechoes/internal/domain"
)

const geminiPrompt = `You are cataloguing artwork for an online gallery.
Answer with exactly one label from this list and nothing else:
%s`

// generator sends prompt parts to a model and returns its text answer.
type generator interface {
	generate(ctx context.Context, parts ...genai.Part) (string, error)
}

// Gemini asks Google Gemini to pick a label for image uploads. Files that are
// not images are handed to the fallback strategy.
type Gemini struct {
	gen      generator
	fallback Classifier
	closer   func() error
}

// NewGemini builds a Gemini classifier. The model runs at temperature 0 so
// repeated calls on one image agree; wrap it in Cached to make that strict.
func NewGemini(ctx context.Context, apiKey, model string, fallback Classifier) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}

	gm := client.GenerativeModel(model)
	gm.SetTemperature(0)
	gm.SetCandidateCount(1)

	if fallback == nil {
		fallback = NewHeuristic()
	}
	return &Gemini{gen: &genaiModel{model: gm}, fallback: fallback, closer: client.Close}, nil
}

func (g *Gemini) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

func (g *Gemini) Classify(ctx context.Context, file domain.UploadedFile) (string, error) {
	data, err := os.ReadFile(file.TempPath)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrClassification, file.OriginalName, err)
	}

	mt := mimetype.Detect(data)
	format, ok := strings.CutPrefix(mt.String(), "image/")
	if !ok {
		return g.fallback.Classify(ctx, file)
	}

	answer, err := g.gen.generate(ctx,
		genai.Text(fmt.Sprintf(geminiPrompt, strings.Join(Labels(), "\n"))),
		genai.ImageData(format, data),
	)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrClassification, err)
	}

	label := Normalize(answer)
	if label == "" {
		return "", fmt.Errorf("%w: gemini answered %q", ErrClassification, answer)
	}
	return label, nil
}

type genaiModel struct {
	model *genai.GenerativeModel
}

func (m *genaiModel) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := m.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format from Gemini")
}
