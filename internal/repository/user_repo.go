package repository

import (
	"context"
	"strings"

	"artechoes/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// ExistsByEmailOrUsername reports which of the two identities is taken.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var rows []domain.User
	err = r.db.WithContext(ctx).
		Select("email", "username").
		Where("email = ? OR username = ?", normalizeEmail(email), strings.TrimSpace(username)).
		Find(&rows).Error
	if err != nil {
		return false, false, err
	}
	for _, row := range rows {
		if row.Email == normalizeEmail(email) {
			emailTaken = true
		}
		if row.Username == strings.TrimSpace(username) {
			usernameTaken = true
		}
	}
	return emailTaken, usernameTaken, nil
}
