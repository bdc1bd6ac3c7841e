package main

import (
	"os"
	"time"

	"toolmart/config"
	"toolmart/db"
	"toolmart/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	config.LoadConfig()

	// Initialize collection files
	db.InitDatabase(config.AppConfig.DataDir)
	// Create uploads directory if it doesn't exist
	if err := os.MkdirAll(config.AppConfig.UploadsDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create uploads directory")
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Serve uploaded images
	app.Static("/uploads", config.AppConfig.UploadsDir)

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal().Err(app.Listen(":" + config.AppConfig.Port)).Msg("Server stopped")
}
