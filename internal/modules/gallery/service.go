package gallery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"artechoes/internal/domain"
	"artechoes/internal/domain/classify"
	"artechoes/internal/domain/upload"
	"artechoes/internal/repository"
)

// Service serves read-only gallery views over stored artworks.
type Service struct {
	artworks ArtworkRepositoryInterface
	threeD   ThreeDRepositoryInterface
	models   ModelLocator
}

func NewService(artworks ArtworkRepositoryInterface, threeD ThreeDRepositoryInterface, models ModelLocator) *Service {
	return &Service{artworks: artworks, threeD: threeD, models: models}
}

func (s *Service) ListArtworks(ctx context.Context, q ListQuery) (*ArtworkPage, error) {
	page := repository.Page{Number: q.Page, Size: q.Limit}.Normalize()
	items, total, err := s.artworks.List(ctx, repository.ArtworkFilter{
		Category: q.Category,
		Query:    q.Q,
		Tag:      q.Tag,
	}, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Artwork{}
	}
	return &ArtworkPage{Artworks: items, Total: total, Page: page.Number, Pages: page.Pages(total)}, nil
}

func (s *Service) GetArtwork(ctx context.Context, id string) (*domain.Artwork, error) {
	a, err := s.artworks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: artwork %s", ErrNotFound, id)
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Artwork, error) {
	items, err := s.artworks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Artwork{}
	}
	return items, nil
}

// Categories lists the classifier vocabulary with how many artworks each
// holds. Categories outside the vocabulary that still have artworks (chosen
// explicitly by uploaders) follow in name order.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.artworks.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryCount, 0, len(counts)+len(classify.Vocabulary))
	for _, label := range classify.Labels() {
		out = append(out, CategoryCount{Name: label, Count: counts[label]})
		delete(counts, label)
	}
	extra := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		extra = append(extra, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })
	return append(out, extra...), nil
}

func (s *Service) ListThreeD(ctx context.Context, q ListQuery) (*ThreeDPage, error) {
	page := repository.Page{Number: q.Page, Size: q.Limit}.Normalize()
	items, total, err := s.threeD.List(ctx, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ThreeDArtwork{}
	}
	return &ThreeDPage{Artworks: items, Total: total, Page: page.Number, Pages: page.Pages(total)}, nil
}

func (s *Service) GetThreeD(ctx context.Context, id string) (*domain.ThreeDArtwork, error) {
	a, err := s.threeD.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 3D artwork %s", ErrNotFound, id)
		}
		return nil, err
	}
	return a, nil
}

// ModelURL returns the public URL of a 3D artwork's model file.
func (s *Service) ModelURL(ctx context.Context, id string) (string, error) {
	path, err := s.models.LocateModel(ctx, id)
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return "", err
	}
	return "/" + path, nil
}
