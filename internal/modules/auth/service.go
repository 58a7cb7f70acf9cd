package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artechoes/internal/database"
	"artechoes/internal/domain"
)

// Service contains the signup and login logic
type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
	cost  int
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt, cost: bcrypt.DefaultCost}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, string, error) {
	emailTaken, usernameTaken, err := s.users.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, "", err
	}
	if emailTaken {
		return nil, "", ErrEmailAlreadyExists
	}
	if usernameTaken {
		return nil, "", ErrUsernameAlreadyExists
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent signup
		if database.IsUniqueViolation(err) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

// ValidateToken resolves a token to its user. Tokens of deleted users are
// rejected.
func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
