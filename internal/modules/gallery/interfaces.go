package gallery

import (
	"context"

	"artechoes/internal/domain"
	"artechoes/internal/repository"
)

type ArtworkRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.Artwork, error)
	List(ctx context.Context, f repository.ArtworkFilter, page repository.Page) ([]domain.Artwork, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Artwork, error)
	CategoryCounts(ctx context.Context) (map[string]int64, error)
}

type ThreeDRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.ThreeDArtwork, error)
	List(ctx context.Context, page repository.Page) ([]domain.ThreeDArtwork, int64, error)
}

// ModelLocator finds the model file of a stored 3D artwork.
type ModelLocator interface {
	LocateModel(ctx context.Context, id string) (string, error)
}
