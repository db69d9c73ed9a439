package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/playmatatu/snooker/internal/admin"
	"github.com/playmatatu/snooker/internal/api"
	"github.com/playmatatu/snooker/internal/config"
	"github.com/playmatatu/snooker/internal/database"
	"github.com/playmatatu/snooker/internal/game"
	"github.com/playmatatu/snooker/internal/migrations"
	"github.com/playmatatu/snooker/internal/redis"
	"github.com/playmatatu/snooker/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres is optional: without it sessions still run but nothing is recorded
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		conn, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Database unavailable, history disabled: %v", err)
		} else {
			db = conn
			defer db.Close()

			if cfg.MigrateOnStart {
				log.Println("↗ Running DB migrations on startup...")
				if err := migrations.RunMigrations(cfg.DatabaseURL, os.Getenv("MIGRATIONS_DIR")); err != nil {
					log.Fatalf("Failed to run migrations: %v", err)
				}
			}

			if err := admin.ApplyRuntimeConfigToConfig(db, cfg); err != nil {
				log.Printf("[CONFIG] Runtime config not applied: %v", err)
			}
		}
	}

	// Redis is optional as well; the leaderboard and idle tracking fall back to memory
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		client, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Printf("[REDIS] Redis unavailable, using in-memory fallbacks: %v", err)
		} else {
			rdb = client
			defer rdb.Close()
		}
	}

	// The manager outlives ctx so Shutdown can still record final scores
	game.InitializeManager(context.Background(), db, rdb, cfg)
	game.Manager.SetBroadcaster(ws.GameHub)

	ws.SetRedisClient(rdb, cfg)
	ws.StartEventSubscriber(ctx)

	game.StartIdleWorker(ctx, game.Manager)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, db, rdb, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting snooker server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	game.Manager.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
