package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/classlight/raisehand/internal/classroom"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := classroom.NewConfigFromEnv()
	classroom.SetConfig(cfg)

	registry := classroom.NewRegistry()

	var broadcaster classroom.Broadcaster = classroom.NewLocalBroadcaster(registry)
	var redisBroadcaster *classroom.RedisBroadcaster
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		redisBroadcaster = classroom.NewRedisBroadcaster(client, registry)
		broadcaster = redisBroadcaster
		log.Printf("Using Redis broadcast backend at %s", cfg.RedisAddr)
	}

	router := classroom.NewRouter(broadcaster, cfg.StrictHands)
	hub := classroom.NewHub(registry, router)

	mux := classroom.SetupRoutes(hub)
	httpServer := classroom.CreateServer(cfg.Port, mux)

	go func() {
		if err := classroom.StartServer(httpServer); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := classroom.ShutdownServer(httpServer, shutdownTimeout); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		log.Printf("Hub shutdown error: %v", err)
	}
	if redisBroadcaster != nil {
		if err := redisBroadcaster.Close(); err != nil {
			log.Printf("Redis broadcaster close error: %v", err)
		}
	}
}
