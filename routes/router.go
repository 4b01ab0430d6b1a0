package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/birlikweb/cms/config"
	"github.com/birlikweb/cms/controllers"
	"github.com/birlikweb/cms/middleware"
	"github.com/birlikweb/cms/models"
	"github.com/birlikweb/cms/repository"
	"github.com/birlikweb/cms/storage"
	"github.com/birlikweb/cms/utils"
)

// routePaths maps content types onto their public route groups.
var routePaths = map[string]string{
	models.TypeAnnouncement: "announcements",
	models.TypePress:        "press",
	models.TypeDocument:     "documents",
	models.TypeArticle:      "articles",
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store storage.Backend) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.Ginzap(utils.Logger))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Locally stored assets are served by the web tier.
	r.Static("/uploads", cfg.UploadsDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	contentRepo := repository.NewContentRepository(db)
	userRepo := repository.NewUserRepository(db)
	authController := controllers.NewAuthController(userRepo)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.RateLimitMiddleware(), authController.Login)
	authGroup.POST("/logout", middleware.RequireRole(models.RoleViewer), authController.Logout)
	authGroup.GET("/me", middleware.RequireRole(models.RoleViewer), authController.Me)

	for _, ctype := range models.ContentTypes {
		controller := controllers.NewContentController(contentRepo, store, ctype)
		group := api.Group("/" + routePaths[ctype])

		group.GET("", controller.List)
		group.GET("/:id", controller.Get)

		group.POST("", middleware.RequireRole(models.RoleEditor), controller.Create)
		group.PUT("/:id", middleware.RequireRole(models.RoleEditor), controller.Update)
		group.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controller.Delete)
	}

	return r
}
