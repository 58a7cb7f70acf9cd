package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThreeDArtwork is a 3D model upload with its preview thumbnail. When the
// model arrived as an archive, ArchiveDir is the directory it was extracted
// into and ModelFile points at the model found inside it.
type ThreeDArtwork struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Price       float64   `gorm:"column:price;not null;default:0;check:chk_three_d_artworks_price,price >= 0" json:"price"`
	Thumbnail   string    `gorm:"column:thumbnail;not null" json:"thumbnail"`
	ModelFile   string    `gorm:"column:model_file;not null" json:"modelFile"`
	ArchiveDir  string    `gorm:"column:archive_dir" json:"archiveDir,omitempty"`
	Category    string    `gorm:"column:category;not null;default:'3d-art'" json:"category"`
	Artist      string    `gorm:"column:artist;not null" json:"artist"`
	OwnerID     string    `gorm:"column:owner_id;index;not null" json:"userId"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;<-:create" json:"createdAt"`
}

func (ThreeDArtwork) TableName() string { return "three_d_artworks" }

func (a *ThreeDArtwork) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
