package dto

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=150"`
	Slug string `json:"slug" binding:"required,max=50"`
}
