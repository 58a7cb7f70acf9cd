package profile

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"artechoes/internal/domain"
	"artechoes/internal/pkg/logger"
)

type Service struct {
	profiles ProfileRepositoryInterface
	pictures PictureStore
	log      zerolog.Logger
}

func NewService(profiles ProfileRepositoryInterface, pictures PictureStore) *Service {
	return &Service{profiles: profiles, pictures: pictures, log: logger.With("profile")}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetOrCreate(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	p, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Bio != nil {
		p.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.Website != nil {
		p.Website = strings.TrimSpace(*req.Website)
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadPicture stores file as the user's profile picture and replaces the
// previous one.
func (s *Service) UploadPicture(ctx context.Context, userID string, file *domain.UploadedFile) (*domain.Profile, error) {
	rel, err := s.pictures.StoreProfilePicture(file)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		s.discard(rel)
		return nil, err
	}
	previous := p.ProfilePic
	p.ProfilePic = "/" + rel
	if err := s.profiles.Save(ctx, p); err != nil {
		s.discard(rel)
		return nil, err
	}

	if previous != "" && previous != p.ProfilePic {
		s.discard(previous)
	}
	return p, nil
}

func (s *Service) discard(path string) {
	if err := s.pictures.RemoveStored(path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove profile picture")
	}
}
