package main // Entry point package

import (
	"context" // contexts for publishing expiry events
	"log"     // Logging library
	"time"    // timestamps on lifecycle events

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/seat-lock-service/internal/config"     // Internal config loader
	"github.com/iliyamo/seat-lock-service/internal/database"   // Optional MySQL pool for the audit trail
	"github.com/iliyamo/seat-lock-service/internal/handler"    // HTTP handlers
	"github.com/iliyamo/seat-lock-service/internal/lock"       // Seat lock registry
	"github.com/iliyamo/seat-lock-service/internal/middleware" // Claimant identity, rate limiting, caching
	"github.com/iliyamo/seat-lock-service/internal/queue"      // Lifecycle event consumer
	"github.com/iliyamo/seat-lock-service/internal/repository" // Audit trail repository
	"github.com/iliyamo/seat-lock-service/internal/router"     // Route registration
	queue_publisher "github.com/iliyamo/seat-lock-service/internal/service"
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	// The expiry notifier reports lapsed locks to the broker. It runs on
	// its own goroutine, so a slow broker never blocks the registry.
	notifier := func(seatID uint64, claimantID string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSeatLifecycle(ctx, queue.SeatLifecycleEvent{
			SeatID:     seatID,
			ClaimantID: claimantID,
			Action:     queue.ActionExpired,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	registry := lock.NewRegistry(cfg.SeatCount, cfg.HoldTTL, notifier) // Fixed seat pool
	log.Printf("seat registry ready: seats=%d ttl=%s", cfg.SeatCount, cfg.HoldTTL)

	// The audit trail is optional: without DB_HOST the service runs purely
	// in memory and the audit endpoint is not registered.
	var events *repository.EventRepo
	if cfg.DBHost != "" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		events = repository.NewEventRepo(db)
	}

	// Consume lifecycle events in the background: file log plus audit rows.
	go func() {
		if err := queue.StartSeatLifecycleConsumer(events); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // May be nil; middleware degrades to pass-through
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and snapshot caching disabled")
	}

	e := echo.New()                        // Create Echo instance
	e.Use(middleware.ClaimantExtractor())  // Resolve claimant identity once per request

	h := handler.NewSeatLockHandler(registry, events)
	router.RegisterRoutes(e) // Health check
	router.RegisterSeatLocks(e, h, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterSnapshot(e, h, middleware.NewSnapshotCache(config.LoadCacheConfig(), rdb))
	if events != nil {
		router.RegisterAudit(e, h)
	}

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
