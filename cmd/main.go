package main

import (
	"log"
	"net/http"

	"tasknest-app/tasknest/config"
	"tasknest-app/tasknest/database"
	"tasknest-app/tasknest/middleware"
	"tasknest-app/tasknest/routes"
	"tasknest-app/tasknest/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize authentication service
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationMinutes, cfg.RefreshExpirationHours)
	services.AuthServiceInstance = authService

	// Initialize user service with auth service dependency
	userService := services.NewUserService(authService)
	services.UserServiceInstance = userService

	// Attachment storage is optional; without credentials the API still
	// works but attachment uploads are rejected.
	if cfg.S3AccessKey != "" {
		storage, err := services.NewS3AttachmentStorage(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize attachment storage: %v", err)
		}
		services.AttachmentStorageInstance = storage
	} else {
		log.Println("S3_ACCESS_KEY not set, attachment storage is disabled")
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Registration, login, and check-auth are reachable without a token
	routes.RegisterAuthRoutes(router, db, authService, userService)

	// Everything else requires a valid access token
	apiGroup := router.Group("/api/v1", middleware.AuthMiddleware(authService))
	routes.RegisterTaskRoutes(apiGroup, db, services.TaskServiceInstance)
	routes.RegisterCategoryRoutes(apiGroup, db, services.CategoryServiceInstance)

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
