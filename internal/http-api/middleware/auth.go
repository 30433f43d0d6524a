package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
)

const userContextKey = "currentUser"

// CurrentUser returns the authenticated user set by RequireAuth/OptionalAuth,
// or nil for an anonymous request.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(userContextKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// resolveUser decodes the bearer token and loads the user row behind it, so
// role changes apply to requests already holding a token. A missing header
// yields (nil, nil); a malformed or stale token is an error.
func resolveUser(c *gin.Context, authService service.AuthService, userRepo repository.UserRepository) (*models.User, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, nil
	}

	// Extract token (format: "Bearer <token>")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, service.ErrInvalidToken
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, service.ErrInvalidToken
	}

	user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		// the account may have been deleted since the token was issued
		return nil, service.ErrInvalidToken
	}
	return user, nil
}

// RequireAuth rejects anonymous requests and stores the current user in the
// request context.
func RequireAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, authService, userRepo)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects requests
// carrying a broken token instead of silently downgrading them.
func OptionalAuth(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, authService, userRepo)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// Permit evaluates a general access predicate against the request method and
// the current user. 401 for anonymous rejections, 403 for authenticated ones.
func Permit(check func(method string, actor *models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if check(c.Request.Method, user) {
			c.Next()
			return
		}

		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		} else {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		}
		c.Abort()
	}
}
