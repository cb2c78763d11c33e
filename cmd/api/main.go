package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/server"
	"github.com/recipebox/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// The API works without rate limiting; don't hold up startup
		log.Printf("redis unavailable, upload rate limiting disabled: %v", err)
		redisClient = nil
	}

	ctx := context.Background()
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to configure object storage: %v", err)
	}
	images := service.NewS3ImageStore(s3Config)

	srv := server.New(cfg, db, images, redisClient)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("received signal: %v", sig)
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}
	log.Println("server stopped")
}
