package main

import (
	"log"
	"path/filepath"

	"api/cache"
	"api/config"
	"api/database"
	"api/middleware"
	v1 "api/routes/v1"
	"api/services"
	"api/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/joho/godotenv/autoload"
)

// @title Gallery API
// @version 1.0
// @description API for managing art competitions, submissions and exhibitions
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	config.Init()

	database.InitDB()

	if err := storage.Init(config.UploadDir); err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}
	cache.Init(config.RedisAddr)

	services.InitLifecycle(database.DB)

	if config.SeedDemoData {
		if err := database.SeedDemoData(); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Catch up on competitions that ended while the server was down, then
	// hand off to the daily schedule
	if err := services.Lifecycle.ReconcileAll(services.TriggerManual); err != nil {
		log.Printf("Startup reconcile failed: %v", err)
	}
	scheduler := services.StartScheduler(services.Lifecycle)
	defer scheduler.Stop()

	middleware.UpdateSystemMetrics()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}))

	// Uploaded images are served directly
	r.Static("/images", filepath.Join(storage.Store.Root, "images"))

	v1.Register(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Starting server on port %s", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
