package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmin/block-battle/internal/api"
	"github.com/jmin/block-battle/internal/config"
	"github.com/jmin/block-battle/internal/janitor"
	"github.com/jmin/block-battle/internal/ratelimit"
	"github.com/jmin/block-battle/internal/repository/postgres"
	"github.com/jmin/block-battle/internal/service"
	"github.com/jmin/block-battle/internal/websocket"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	services := service.NewServices(repos, hub, cfg)

	// Start the idle-room janitor
	reaper := janitor.New(repos.Room, cfg.RoomIdleTimeout)
	if err := reaper.Start(); err != nil {
		log.Fatalf("failed to start janitor: %v", err)
	}

	// Initialize rate limiter and router
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimitPerMinute, time.Minute)
	router := api.NewRouter(services, hub, limiter)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	reaper.Stop()
	limiter.Close()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
