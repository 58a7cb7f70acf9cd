package upload

import (
	"context"

	"artechoes/internal/domain"
)

// ArtworkStore persists gallery artworks.
type ArtworkStore interface {
	Create(ctx context.Context, a *domain.Artwork) error
}

// ThreeDStore persists and reads 3D artworks.
type ThreeDStore interface {
	Create(ctx context.Context, a *domain.ThreeDArtwork) error
	GetByID(ctx context.Context, id string) (*domain.ThreeDArtwork, error)
}

// Publisher receives an event after every successful upload.
type Publisher interface {
	Publish(e domain.Event)
}
