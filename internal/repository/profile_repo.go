package repository

import (
	"context"
	"errors"
	"time"

	"artechoes/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetOrCreate returns the profile of userID, inserting an empty one on first
// access.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = domain.Profile{UserID: userID, UpdatedAt: time.Now()}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	// a concurrent request may have won the insert
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Save upserts every column of p.
func (r *ProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}
