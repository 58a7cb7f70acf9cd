package gallery

import "artechoes/internal/domain"

type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1,max=100000"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Category string `form:"category"`
	Q        string `form:"q"`
	Tag      string `form:"tag"`
}

type ArtworkPage struct {
	Artworks []domain.Artwork `json:"artworks"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

type ThreeDPage struct {
	Artworks []domain.ThreeDArtwork `json:"artworks"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	Pages    int                    `json:"pages"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
