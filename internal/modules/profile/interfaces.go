package profile

import (
	"context"

	"artechoes/internal/domain"
)

type ProfileRepositoryInterface interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, p *domain.Profile) error
}

// PictureStore places profile pictures on disk. upload.Service implements it.
type PictureStore interface {
	StoreProfilePicture(file *domain.UploadedFile) (string, error)
	RemoveStored(relPath string) error
}
