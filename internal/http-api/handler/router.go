package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/permissions"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
	"reviewhub/internal/metrics"
)

// RouterConfig wires services and shared infrastructure into the router.
type RouterConfig struct {
	Cfg *config.Config
	DB  *gorm.DB

	AuthService     service.AuthService
	UserService     service.UserService
	CategoryService service.CategoryService
	GenreService    service.GenreService
	TitleService    service.TitleService
	ReviewService   service.ReviewService
	CommentService  service.CommentService

	UserRepo repository.UserRepository
}

// NewRouter assembles the full route tree under /api/v1 plus the operational
// endpoints.
func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.HTTPMetrics())

	router.GET("/healthz", healthCheck(rc.DB))
	if rc.Cfg.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	authHandler := NewAuthHandler(rc.AuthService)
	userHandler := NewUserHandler(rc.UserService)
	categoryHandler := NewCategoryHandler(rc.CategoryService)
	genreHandler := NewGenreHandler(rc.GenreService)
	titleHandler := NewTitleHandler(rc.TitleService)
	reviewHandler := NewReviewHandler(rc.ReviewService)
	commentHandler := NewCommentHandler(rc.CommentService)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth", middleware.RateLimit(rc.Cfg.AuthRateRPS, rc.Cfg.AuthRateBurst))
	authHandler.RegisterRoutes(auth)

	// /users/me must be registered before the admin gate kicks in for the
	// wildcard routes; gin keeps the static segment distinct from :username.
	me := v1.Group("/users/me", middleware.RequireAuth(rc.AuthService, rc.UserRepo))
	userHandler.RegisterMeRoutes(me)

	users := v1.Group("/users",
		middleware.RequireAuth(rc.AuthService, rc.UserRepo),
		middleware.Permit(func(_ string, actor *models.User) bool {
			return permissions.AdminOnly(actor)
		}),
	)
	userHandler.RegisterRoutes(users)

	categories := v1.Group("/categories",
		middleware.OptionalAuth(rc.AuthService, rc.UserRepo),
		middleware.Permit(permissions.AdminOrReadOnly),
	)
	categoryHandler.RegisterRoutes(categories)
	// the 404 on category updates applies at any access level, so the
	// rejection routes bypass the admin gate above
	categoryHandler.RegisterUpdateRejection(v1.Group("/categories"))

	genres := v1.Group("/genres",
		middleware.OptionalAuth(rc.AuthService, rc.UserRepo),
		middleware.Permit(permissions.AdminOrReadOnly),
	)
	genreHandler.RegisterRoutes(genres)

	titles := v1.Group("/titles",
		middleware.OptionalAuth(rc.AuthService, rc.UserRepo),
		middleware.Permit(permissions.AdminOrReadOnly),
	)
	titleHandler.RegisterRoutes(titles)

	// Review and comment groups hang off v1 directly so the admin-or-read-only
	// gate on /titles does not apply to them.
	reviews := v1.Group("/titles/:title_id/reviews",
		middleware.OptionalAuth(rc.AuthService, rc.UserRepo),
		middleware.Permit(permissions.OwnerModeratorOrReadOnly),
	)
	reviewHandler.RegisterRoutes(reviews)

	comments := v1.Group("/titles/:title_id/reviews/:review_id/comments",
		middleware.OptionalAuth(rc.AuthService, rc.UserRepo),
		middleware.Permit(permissions.OwnerModeratorOrReadOnly),
	)
	commentHandler.RegisterRoutes(comments)

	return router
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
