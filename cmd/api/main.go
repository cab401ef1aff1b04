package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Miscodings/nyc-transit-hub/internal/api"
	"github.com/Miscodings/nyc-transit-hub/internal/cache"
	"github.com/Miscodings/nyc-transit-hub/internal/catalog"
	"github.com/Miscodings/nyc-transit-hub/internal/config"
	"github.com/Miscodings/nyc-transit-hub/internal/db"
	"github.com/Miscodings/nyc-transit-hub/internal/feed"
	"github.com/Miscodings/nyc-transit-hub/internal/gtfsstatic"
	"github.com/Miscodings/nyc-transit-hub/internal/status"
)

func main() {
	log.Println("Starting NYC Transit Hub API server...")

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database connection
	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Database connection established")

	if err := db.InitSchema(context.Background(), pool); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Redis is a soft dependency: snapshots are just recomputed when
	// the cache is down.
	if _, err := cache.GetClient(); err != nil {
		log.Printf("Warning: Redis unavailable, serving without snapshot cache: %v", err)
	} else {
		log.Println("✓ Redis connection established")
	}
	defer cache.Close()

	feedClient := feed.NewClient(cfg.APIKey)
	downloader := gtfsstatic.NewDownloader(cfg.Static.URL, cfg.Static.Path, time.Duration(cfg.Static.TTL))
	store := status.NewPGStore(pool)
	handlers := api.NewHandlers(cfg, feedClient, downloader, store, pool,
		catalog.Routes(), catalog.Stations())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "NYC Transit Hub API",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	app.Get("/api/health", handlers.Health)
	app.Get("/api/service-status", handlers.ServiceStatus)
	app.Get("/api/stations", handlers.Stations)
	app.Get("/api/arrivals/:station_id", handlers.Arrivals)
	app.Get("/api/route-polylines", handlers.RoutePolylines)

	app.Post("/api/users", handlers.CreateUser)
	app.Get("/api/users/:firebase_uid", handlers.GetUser)
	app.Get("/api/favorites", handlers.GetFavorites)
	app.Post("/api/favorites", handlers.AddFavorite)
	app.Delete("/api/favorites/:id", handlers.DeleteFavorite)
	app.Get("/api/alerts", handlers.GetUserAlerts)
	app.Post("/api/alerts", handlers.CreateUserAlert)
	app.Delete("/api/alerts/:id", handlers.DeleteUserAlert)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("🚀 Server listening on http://localhost%s", addr)
	log.Printf("📍 Service status: http://localhost%s/api/service-status", addr)
	log.Printf("❤️  Health check: http://localhost%s/api/health", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// customErrorHandler handles errors returned from handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
