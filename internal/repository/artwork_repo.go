package repository

import (
	"context"
	"strings"

	"artechoes/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArtworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

// ArtworkFilter narrows a gallery listing. Empty fields match everything.
type ArtworkFilter struct {
	Category string
	Query    string
	Tag      string
	OwnerID  string
}

// Create inserts the artwork and its category index rows in one transaction.
func (r *ArtworkRepository) Create(ctx context.Context, a *domain.Artwork) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return err
		}

		links := make([]domain.ArtworkCategory, 0, len(a.Categories))
		for i, c := range a.Categories {
			links = append(links, domain.ArtworkCategory{ArtworkID: a.ID, Category: c, Position: i})
		}
		if len(links) == 0 {
			return nil
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
		a.CategoryLinks = links
		return nil
	})
}

func (r *ArtworkRepository) GetByID(ctx context.Context, id string) (*domain.Artwork, error) {
	var a domain.Artwork
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&a)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &a, nil
}

// List returns one page of artworks, newest first, plus the total match count.
func (r *ArtworkRepository) List(ctx context.Context, f ArtworkFilter, page Page) ([]domain.Artwork, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Artwork{})

	if f.Category != "" {
		q = q.Where("id IN (?)",
			r.db.Model(&domain.ArtworkCategory{}).Select("artwork_id").Where("category = ?", f.Category))
	}
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + escapeLike(s) + "%"
		q = q.Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(artist) LIKE ? ESCAPE '\\'", like, like, like)
	}
	if tag := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f.Tag), "#")); tag != "" {
		// tags are stored lower-case as a JSON array of strings
		q = q.Where("CAST(tags AS TEXT) LIKE ? ESCAPE '\\'", `%"`+escapeLike(tag)+`"%`)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Artwork
	err := q.Order("created_at DESC").Order("id").
		Limit(page.Size).Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByOwner returns every artwork of one owner, newest first.
func (r *ArtworkRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Artwork, error) {
	var items []domain.Artwork
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Order("id").
		Find(&items).Error
	return items, err
}

// CategoryCounts returns how many artworks sit under each category.
func (r *ArtworkRepository) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.ArtworkCategory{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
