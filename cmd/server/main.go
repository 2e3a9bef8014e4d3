package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/config"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/database"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/routes"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Postgres (users, chat history)
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	// 3. Connect to DynamoDB (health records, profiles, fitness plans)
	dynamo, err := database.ConnectDynamo(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DynamoDB: %v", err)
	}

	// 4. Setup Fiber
	app := fiber.New(fiber.Config{
		// Workout IDs carry a "#" composite-key separator, so path params
		// arrive percent-encoded.
		UnescapePath: true,
	})

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, cfg, database.DB, dynamo)

	// 5. Start Server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
