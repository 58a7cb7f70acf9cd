package upload

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"artechoes/internal/database"
	"artechoes/internal/domain"
	"artechoes/internal/domain/classify"
	"artechoes/internal/pkg/logger"
	"artechoes/internal/pkg/modelzip"
	"artechoes/internal/pkg/storage"
	"artechoes/internal/pkg/utils"
)

// ArtworkMetadata holds the form fields of a 2D upload.
type ArtworkMetadata struct {
	Title       string
	Description string
	Artist      string
	OwnerID     string
	Categories  []string
	Tags        []string
	// Price is the raw form value; empty means 0.
	Price string
}

// ThreeDMetadata holds the form fields of a 3D upload.
type ThreeDMetadata struct {
	Title       string
	Description string
	Artist      string
	OwnerID     string
	Price       string
}

// Service runs the upload pipeline: validate, classify, relocate, persist.
// Persisting is always the last step, so a failure earlier never leaves a
// record behind, and files written before a failure are removed.
type Service struct {
	artworks   ArtworkStore
	threeD     ThreeDStore
	classifier classify.Classifier
	resolver   *storage.Resolver
	relocator  *storage.Relocator
	extractor  *modelzip.Extractor
	publisher  Publisher
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(
	artworks ArtworkStore,
	threeD ThreeDStore,
	classifier classify.Classifier,
	resolver *storage.Resolver,
	extractor *modelzip.Extractor,
	publisher Publisher,
) *Service {
	return &Service{
		artworks:   artworks,
		threeD:     threeD,
		classifier: classifier,
		resolver:   resolver,
		relocator:  storage.NewRelocator(resolver),
		extractor:  extractor,
		publisher:  publisher,
		log:        logger.With("upload"),
		now:        time.Now,
	}
}

func (s *Service) Resolver() *storage.Resolver { return s.resolver }

// SubmitArtwork stores a 2D upload. A category equal to "Auto" is replaced
// by the classifier's label; the file is placed under the first category.
func (s *Service) SubmitArtwork(ctx context.Context, file *domain.UploadedFile, meta ArtworkMetadata) (*domain.Artwork, error) {
	var trash cleanup
	if file != nil {
		trash.file(file.TempPath)
	}

	title := strings.TrimSpace(meta.Title)
	owner := strings.TrimSpace(meta.OwnerID)
	switch {
	case file == nil:
		return nil, s.fail(&trash, fmt.Errorf("%w: no file uploaded", ErrValidation))
	case title == "":
		return nil, s.fail(&trash, fmt.Errorf("%w: title is required", ErrValidation))
	case owner == "":
		return nil, s.fail(&trash, fmt.Errorf("%w: userId is required", ErrValidation))
	case len(nonEmpty(meta.Categories)) == 0:
		return nil, s.fail(&trash, fmt.Errorf("%w: at least one category is required", ErrValidation))
	}

	price, err := parsePrice(meta.Price)
	if err != nil {
		return nil, s.fail(&trash, err)
	}

	if err := Validate(file.MediaType, KindArtwork); err != nil {
		return nil, s.fail(&trash, err)
	}

	categories, label, err := s.resolveCategories(ctx, *file, meta.Categories)
	if err != nil {
		return nil, s.fail(&trash, err)
	}

	placed, err := s.relocator.Relocate(file.TempPath, categories[0], file.OriginalName)
	if err != nil {
		return nil, s.fail(&trash, err)
	}
	trash.file(placed.AbsPath)

	art := &domain.Artwork{
		Title:         title,
		Categories:    categories,
		Description:   meta.Description,
		Tags:          utils.MergeTags(meta.Tags, utils.ParseHashtags(meta.Description)),
		FilePath:      placed.RelPath,
		MediaType:     normalizeMediaType(file.MediaType),
		Size:          file.Size,
		Artist:        artistOrDefault(meta.Artist),
		Price:         price,
		OwnerID:       owner,
		CategorizedAs: label,
	}
	if err := s.artworks.Create(ctx, art); err != nil {
		return nil, s.fail(&trash, persistError(err))
	}

	s.log.Info().
		Str("artwork_id", art.ID).
		Str("file_path", art.FilePath).
		Strs("categories", art.Categories).
		Msg("artwork uploaded")
	s.publish(domain.EventArtworkCreated, art)
	return art, nil
}

// SubmitThreeD stores a 3D model with its thumbnail. Zipped models are
// extracted and the record points at the model found inside.
func (s *Service) SubmitThreeD(ctx context.Context, thumb, model *domain.UploadedFile, meta ThreeDMetadata) (*domain.ThreeDArtwork, error) {
	var trash cleanup
	for _, f := range []*domain.UploadedFile{thumb, model} {
		if f != nil {
			trash.file(f.TempPath)
		}
	}

	title := strings.TrimSpace(meta.Title)
	owner := strings.TrimSpace(meta.OwnerID)
	switch {
	case thumb == nil || model == nil:
		return nil, s.fail(&trash, fmt.Errorf("%w: thumbnail and modelFile are required", ErrValidation))
	case title == "":
		return nil, s.fail(&trash, fmt.Errorf("%w: title is required", ErrValidation))
	case owner == "":
		return nil, s.fail(&trash, fmt.Errorf("%w: userId is required", ErrValidation))
	}

	price, err := parsePrice(meta.Price)
	if err != nil {
		return nil, s.fail(&trash, err)
	}

	if err := Validate(thumb.MediaType, KindImage); err != nil {
		return nil, s.fail(&trash, fmt.Errorf("thumbnail: %w", err))
	}
	if err := Validate(model.MediaType, KindModel); err != nil {
		return nil, s.fail(&trash, fmt.Errorf("modelFile: %w", err))
	}

	thumbDir, err := s.resolver.ThreeDDir(storage.ThumbnailsDir)
	if err != nil {
		return nil, s.fail(&trash, err)
	}
	modelDir, err := s.resolver.ThreeDDir(storage.ModelsDir)
	if err != nil {
		return nil, s.fail(&trash, err)
	}

	thumbPlaced, err := s.relocator.MoveInto(thumb.TempPath, thumbDir, thumb.OriginalName)
	if err != nil {
		return nil, s.fail(&trash, err)
	}
	trash.file(thumbPlaced.AbsPath)

	modelPlaced, err := s.relocator.MoveInto(model.TempPath, modelDir, model.OriginalName)
	if err != nil {
		return nil, s.fail(&trash, err)
	}
	trash.file(modelPlaced.AbsPath)

	rec := &domain.ThreeDArtwork{
		Title:       title,
		Description: meta.Description,
		Price:       price,
		Thumbnail:   thumbPlaced.RelPath,
		ModelFile:   modelPlaced.RelPath,
		Category:    domain.ThreeDCategory,
		Artist:      artistOrDefault(meta.Artist),
		OwnerID:     owner,
	}

	if IsArchive(model.OriginalName, model.MediaType) {
		trash.dir(modelzip.OutputDir(modelPlaced.AbsPath))
		extracted, err := s.extractor.ExtractFile(modelPlaced.AbsPath)
		if err != nil {
			return nil, s.fail(&trash, fmt.Errorf("modelFile %s: %w", model.OriginalName, err))
		}
		if rec.ModelFile, err = s.resolver.Relative(extracted.Files[0]); err != nil {
			return nil, s.fail(&trash, err)
		}
		if rec.ArchiveDir, err = s.resolver.Relative(extracted.Dir); err != nil {
			return nil, s.fail(&trash, err)
		}
	}

	if err := s.threeD.Create(ctx, rec); err != nil {
		return nil, s.fail(&trash, persistError(err))
	}

	s.log.Info().
		Str("artwork_id", rec.ID).
		Str("model_file", rec.ModelFile).
		Bool("extracted", rec.ArchiveDir != "").
		Msg("3D artwork uploaded")
	s.publish(domain.EventThreeDCreated, rec)
	return rec, nil
}

// StoreProfilePicture validates an ingested image and moves it into the
// profile picture directory, returning its stored path.
func (s *Service) StoreProfilePicture(file *domain.UploadedFile) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: no file uploaded", ErrValidation)
	}
	var trash cleanup
	trash.file(file.TempPath)

	if err := Validate(file.MediaType, KindProfileImage); err != nil {
		return "", s.fail(&trash, err)
	}
	dir, err := s.resolver.ProfilePicDir()
	if err != nil {
		return "", s.fail(&trash, err)
	}
	placed, err := s.relocator.MoveInto(file.TempPath, dir, file.OriginalName)
	if err != nil {
		return "", s.fail(&trash, err)
	}
	return placed.RelPath, nil
}

// RemoveStored deletes a previously stored file given its stored path.
// Paths outside the uploads root are refused.
func (s *Service) RemoveStored(relPath string) error {
	abs := s.resolver.Absolute(strings.TrimPrefix(relPath, "/"))
	if !s.resolver.Within(abs) {
		return fmt.Errorf("%w: %s is outside the uploads root", storage.ErrStorage, relPath)
	}
	return s.resolver.FS().Remove(abs)
}

// LocateModel returns the stored path of the model of a 3D artwork. For an
// extracted archive the extraction directory is searched again so that the
// answer follows what is on disk.
func (s *Service) LocateModel(ctx context.Context, id string) (string, error) {
	rec, err := s.threeD.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: 3D artwork %s", ErrNotFound, id)
		}
		return "", err
	}
	if rec.ArchiveDir == "" {
		return rec.ModelFile, nil
	}

	found, err := s.extractor.Locate(s.resolver.Absolute(rec.ArchiveDir))
	if err != nil {
		if errors.Is(err, modelzip.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return "", fmt.Errorf("%w: %v", storage.ErrStorage, err)
	}
	return s.resolver.Relative(found)
}

// resolveCategories trims the requested categories, swaps every "Auto" for
// the classifier's label and drops duplicates, keeping order.
func (s *Service) resolveCategories(ctx context.Context, file domain.UploadedFile, requested []string) ([]string, string, error) {
	cats := nonEmpty(requested)

	auto := false
	for _, c := range cats {
		if c == domain.AutoCategory {
			auto = true
			break
		}
	}
	if !auto {
		return utils.Dedupe(cats), "", nil
	}

	label, err := s.classifier.Classify(ctx, file)
	if err != nil {
		if !errors.Is(err, classify.ErrClassification) {
			err = fmt.Errorf("%w: %v", classify.ErrClassification, err)
		}
		return nil, "", err
	}
	if !classify.IsKnown(label) {
		return nil, "", fmt.Errorf("%w: unknown label %q", classify.ErrClassification, label)
	}

	for i, c := range cats {
		if c == domain.AutoCategory {
			cats[i] = label
		}
	}
	return utils.Dedupe(cats), label, nil
}

func (s *Service) publish(eventType string, data any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.Event{Type: eventType, Data: data, At: s.now()})
}

// fail removes every file written so far and returns err unchanged.
func (s *Service) fail(trash *cleanup, err error) error {
	trash.run(s.resolver.FS(), s.log)
	s.log.Debug().Err(err).Msg("upload rejected")
	return err
}

type cleanup struct {
	files []string
	dirs  []string
}

func (c *cleanup) file(p string) { c.files = append(c.files, p) }
func (c *cleanup) dir(p string)  { c.dirs = append(c.dirs, p) }

func (c *cleanup) run(fsys storage.FS, log zerolog.Logger) {
	for _, p := range c.files {
		if err := fsys.Remove(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("failed to remove upload file")
		}
	}
	for _, d := range c.dirs {
		if err := fsys.RemoveAll(d); err != nil {
			log.Warn().Err(err).Str("path", d).Msg("failed to remove extraction directory")
		}
	}
}

func persistError(err error) error {
	if database.IsDataError(err) {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrValidation, raw)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return price, nil
}

func artistOrDefault(artist string) string {
	if a := strings.TrimSpace(artist); a != "" {
		return a
	}
	return domain.DefaultArtist
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
