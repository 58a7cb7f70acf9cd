package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artechoes/internal/domain"
	"artechoes/internal/pkg/jwt"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == "" {
		u.ID = "user-1"
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func newTestService(repo *mockUserRepo) (*Service, *jwt.Service) {
	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repo, tokens)
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignup_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc, tokens := newTestService(repo)

	repo.On("ExistsByEmailOrUsername", mock.Anything, "Ann@Example.com", "ann").Return(false, false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ann@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	user, token, err := svc.Signup(context.Background(), SignupRequest{
		Username: "ann",
		Email:    "Ann@Example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.PasswordHash)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ann", claims.Username)
	repo.AssertExpectations(t)
}

func TestSignup_Conflicts(t *testing.T) {
	cases := []struct {
		name          string
		emailTaken    bool
		usernameTaken bool
		want          error
	}{
		{"email", true, false, ErrEmailAlreadyExists},
		{"username", false, true, ErrUsernameAlreadyExists},
		{"both", true, true, ErrEmailAlreadyExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			svc, _ := newTestService(repo)
			repo.On("ExistsByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).
				Return(tc.emailTaken, tc.usernameTaken, nil)

			_, _, err := svc.Signup(context.Background(), SignupRequest{Username: "ann", Email: "a@b.c", Password: "secret1"})

			assert.ErrorIs(t, err, tc.want)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin(t *testing.T) {
	stored := func() *domain.User {
		return &domain.User{ID: "u-7", Username: "ann", Email: "ann@example.com", PasswordHash: hashed(t, "secret1")}
	}

	t.Run("success", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(repo)
		repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(stored(), nil)

		user, token, err := svc.Login(context.Background(), LoginRequest{Email: " ANN@example.com", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "u-7", user.ID)
		assert.NotEmpty(t, token)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(repo)
		repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(stored(), nil)

		_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(repo)
		repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("db error", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(repo)
		boom := errors.New("connection reset")
		repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, boom)

		_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "x"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestValidateToken(t *testing.T) {
	repo := new(mockUserRepo)
	svc, tokens := newTestService(repo)

	token, err := tokens.GenerateToken("u-7", "ann")
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, "u-7").Return(&domain.User{ID: "u-7", Username: "ann", PasswordHash: "x"}, nil).Once()
	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ann", user.Username)
	assert.Empty(t, user.PasswordHash)

	repo.On("GetByID", mock.Anything, "u-7").Return(nil, gorm.ErrRecordNotFound).Once()
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
