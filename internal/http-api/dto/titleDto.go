package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=150"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`    // genre slugs
	Category    *string  `json:"category"` // category slug
}

// UpdateTitleRequest is a partial update; nil fields stay untouched. A
// present-but-empty Genre list clears the associations.
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=150"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

// TitleResponse mirrors the read shape: nested objects plus the computed
// rating (null when the title has no reviews).
type TitleResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description *string          `json:"description"`
	Genre       []models.Genre   `json:"genre"`
	Category    *models.Category `json:"category"`
	CreatedAt   time.Time        `json:"created_at"`
}

func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	genres := t.Genres
	if genres == nil {
		genres = []models.Genre{}
	}
	return &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       genres,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
}
