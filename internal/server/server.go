package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eventfinder/eventfinder/config"
	"github.com/eventfinder/eventfinder/internal/handlers"
	"github.com/eventfinder/eventfinder/internal/middleware"
	"github.com/eventfinder/eventfinder/internal/models"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	SetupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/sync", handlers.SyncUser)

		public.GET("/events", handlers.ListEvents)
		public.GET("/events/:id", handlers.GetEvent)
		public.GET("/genres", handlers.ListGenres)
		public.GET("/comments", handlers.ListComments)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", handlers.GetProfile)
		protected.POST("/profile", handlers.UpdateProfile)
		protected.DELETE("/account", handlers.DeleteAccount)

		protected.GET("/registrations", handlers.ListRegistrations)
		protected.POST("/registrations", handlers.CreateRegistration)
		protected.DELETE("/registrations/:event_id", handlers.CancelRegistration)

		protected.GET("/favorites", handlers.ListFavorites)
		protected.POST("/favorites", handlers.AddFavorite)
		protected.DELETE("/favorites/:event_id", handlers.RemoveFavorite)

		protected.POST("/comments", handlers.CreateComment)
		protected.DELETE("/comments/:id", handlers.DeleteComment)
	}

	admin := r.Group("/v1/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/events", handlers.AdminListEvents)
		admin.POST("/events", handlers.AdminCreateEvent)
		admin.PUT("/events/:id", handlers.AdminUpdateEvent)
		admin.DELETE("/events/:id", handlers.AdminDeleteEvent)

		admin.GET("/stats", handlers.AdminStats)
		admin.POST("/upload", handlers.UploadImage)
	}

	owner := r.Group("/v1/admin")
	owner.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleOwner))
	{
		owner.PUT("/users/:id/role", handlers.UpdateUserRole)
	}
}
