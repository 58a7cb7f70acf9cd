package auth

import (
	"context"

	"artechoes/internal/domain"
	"artechoes/internal/pkg/jwt"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, bool, error)
}

type jwtService interface {
	GenerateToken(userID, username string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
