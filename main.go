package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/repositories"
	"blog/internal/server"
	"blog/internal/services"
	"blog/pkg/rabbitmq"
	"blog/pkg/redisstore"
	"blog/pkg/storage"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Record Store ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// --- Asset Store ---
	assets, err := storage.NewDiskAssetStore(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("Failed to prepare uploads directory: %v", err)
	}

	// --- Token Revocation (optional) ---
	var revoker services.TokenRevoker
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		revoker = redisstore.NewTokenBlacklist(client)
		log.Println("Token revocation enabled")
	}

	// --- Post Events (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		log.Println("Starting RabbitMQ consumer for post events...")
		if err := mqClient.ConsumePostEvents(rabbitmq.LogPostEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db.DB)
	postRepo := repositories.NewGORMPostRepository(db.DB)

	// --- Services ---
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry, revoker)
	userService := services.NewUserService(userRepo, assets, services.NewBcryptHasher(), authService)
	postService := services.NewPostService(postRepo, assets, events)

	app := server.New(server.Options{
		Users:       userService,
		Posts:       postService,
		Auth:        authService,
		UploadsDir:  cfg.UploadsDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
