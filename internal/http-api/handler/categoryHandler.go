package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:slug", h.Delete)
}

// RegisterUpdateRejection registers the in-place update routes. Categories are
// identified by slug and never updated in place; every caller gets a 404, so
// these routes must not sit behind the admin write gate.
func (h *CategoryHandler) RegisterUpdateRejection(rg *gin.RouterGroup) {
	rg.PATCH("/:slug", h.UpdateRejected)
	rg.PUT("/:slug", h.UpdateRejected)
}

// List returns all categories, optionally filtered by name.
// GET /api/v1/categories?search=...
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Create adds a category.
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	category, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Delete removes a category by slug; dependent titles keep their rows with a
// nulled category.
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateRejected unconditionally answers 404: category identity is the slug,
// updates are not supported at any access level.
func (h *CategoryHandler) UpdateRejected(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "category update is not supported"})
}
