package repository

import (
	"context"

	"artechoes/internal/domain"

	"gorm.io/gorm"
)

type ThreeDRepository struct {
	db *gorm.DB
}

func NewThreeDRepository(db *gorm.DB) *ThreeDRepository {
	return &ThreeDRepository{db: db}
}

func (r *ThreeDRepository) Create(ctx context.Context, a *domain.ThreeDArtwork) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ThreeDRepository) GetByID(ctx context.Context, id string) (*domain.ThreeDArtwork, error) {
	var a domain.ThreeDArtwork
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&a)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &a, nil
}

func (r *ThreeDRepository) List(ctx context.Context, page Page) ([]domain.ThreeDArtwork, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.ThreeDArtwork{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.ThreeDArtwork
	err := q.Order("created_at DESC").Order("id").
		Limit(page.Size).Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
