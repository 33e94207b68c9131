package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/apikeys"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/auth"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/database"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/models"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/projects"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/resolve"
	"github.com/CodeBagger/SaveMySettingsMK/pkg/savemysettings/settings"
	"github.com/gin-gonic/gin"
)

// @title SaveMySettings API
// @version 1.0
// @description A multi-tenant key-value settings store with per-project API keys.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT session token. Format: "Bearer {token}"

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("SAVEMYSETTINGS_DB_PATH")
	if dbPath == "" {
		dbPath = "savemysettings.db"
	}

	// Open the database; the handle is constructed once here and passed
	// explicitly to every handler
	db, err := database.Open(database.Config{Path: dbPath})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "savemysettings",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Session-authenticated routes
		session := api.Group("", auth.AuthMiddleware())

		projectsHandler := projects.NewHandler(db)
		projectsHandler.RegisterRoutes(session)

		settingsHandler := settings.NewHandler(db)
		settingsHandler.RegisterRoutes(session)

		apiKeysHandler := apikeys.NewHandler(db)
		apiKeysHandler.RegisterRoutes(session)
	}

	// Public API-key-authenticated read endpoint
	resolveHandler := resolve.NewHandler(db)
	resolveHandler.RegisterRoutes(r)

	// Serve static frontend files if web/dist exists
	webDistPath := "./web/dist"
	if _, err := os.Stat(webDistPath); err == nil {
		// Serve static assets (JS, CSS, images, etc.)
		r.Static("/assets", filepath.Join(webDistPath, "assets"))

		r.StaticFile("/favicon.ico", filepath.Join(webDistPath, "favicon.ico"))

		// SPA fallback - serve index.html for frontend routes
		indexHTML := filepath.Join(webDistPath, "index.html")
		spaRoutes := []string{"/", "/login", "/register", "/dashboard", "/keys"}
		for _, route := range spaRoutes {
			r.GET(route, func(c *gin.Context) {
				c.File(indexHTML)
			})
		}

		log.Println("Serving frontend from ./web/dist")
	} else {
		log.Println("No frontend build found at ./web/dist - API only mode")
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting SaveMySettings server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
