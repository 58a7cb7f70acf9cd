package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// AutoCategory asks the upload pipeline to classify the file itself.
	AutoCategory = "Auto"
	// DefaultArtist is stored when the uploader leaves the artist blank.
	DefaultArtist = "Unknown Artist"
	// ThreeDCategory is the fixed category of every 3D artwork.
	ThreeDCategory = "3d-art"
)

// Artwork is a gallery entry backed by one file under uploads/<category>/.
// FilePath is relative to the server working directory and always uses
// forward slashes.
type Artwork struct {
	ID            string                      `gorm:"column:id;primaryKey" json:"id"`
	Title         string                      `gorm:"column:title;not null" json:"title"`
	Categories    datatypes.JSONSlice[string] `gorm:"column:categories;not null" json:"categories"`
	Description   string                      `gorm:"column:description" json:"description"`
	Tags          datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	FilePath      string                      `gorm:"column:file_path;not null" json:"filePath"`
	MediaType     string                      `gorm:"column:media_type" json:"mediaType"`
	Size          int64                       `gorm:"column:size" json:"size"`
	Artist        string                      `gorm:"column:artist;not null;default:'Unknown Artist'" json:"artist"`
	Price         float64                     `gorm:"column:price;not null;default:0;check:chk_artworks_price,price >= 0" json:"price"`
	OwnerID       string                      `gorm:"column:owner_id;index;not null" json:"userId"`
	CategorizedAs string                      `gorm:"column:categorized_as" json:"categorizedAs,omitempty"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime;<-:create" json:"createdAt"`

	CategoryLinks []ArtworkCategory `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Artwork) TableName() string { return "artworks" }

func (a *Artwork) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ArtworkCategory indexes an artwork under one of its categories so that
// browsing by category is a plain indexed lookup on every backend.
type ArtworkCategory struct {
	ArtworkID string `gorm:"column:artwork_id;primaryKey"`
	Category  string `gorm:"column:category;primaryKey;index"`
	Position  int    `gorm:"column:position"`
}

func (ArtworkCategory) TableName() string { return "artwork_categories" }
