package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"learnhub/backend/config"
	"learnhub/backend/database"
	"learnhub/backend/middleware"
	"learnhub/backend/routes"
	"learnhub/backend/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	logger := utils.InitLogger()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Client-Id",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	routes.SetupRoutes(app, db, cfg, logger)

	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
