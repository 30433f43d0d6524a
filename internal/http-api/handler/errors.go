package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/service"
)

// respondError maps service errors onto HTTP responses. Validation failures
// come back as {"errors": {field: message}}, everything else as {"error": msg}.
func respondError(c *gin.Context, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{ve.Field: ve.Message}})
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": err.Error()}})
	case errors.Is(err, service.ErrNameInUse), errors.Is(err, service.ErrReservedUsername):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"username": err.Error()}})
	case errors.Is(err, service.ErrInvalidConfirmationCode):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"confirmation_code": err.Error()}})
	case errors.Is(err, service.ErrReviewExists):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"detail": err.Error()}})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondBindingError turns a gin binding failure into the shared
// field-level shape.
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": dto.BindingErrors(err)})
}
