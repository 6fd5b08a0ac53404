// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/cart-service/internal/config"
	"github.com/your-org/cart-service/internal/domain/cart"
	"github.com/your-org/cart-service/internal/domain/reminder"
	"github.com/your-org/cart-service/internal/infrastructure/database/postgres"
	"github.com/your-org/cart-service/internal/infrastructure/database/redis"
	"github.com/your-org/cart-service/internal/infrastructure/notification"
	"github.com/your-org/cart-service/internal/interfaces/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Health check
	if err := db.Health(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB())

	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.Printf("Warning: Index creation failed: %v", err)
	}

	logger := newLogger(cfg)

	// Notification gateways are injected into the reminder engine at
	// startup; there is no process-wide gateway handle.
	pushGateway, emailGateway := setupGateways(cfg, logger)

	cartStore := cart.NewStore(db.GetDB())
	cartService := cart.NewService(cartStore)

	reminderEngine := reminder.NewEngine(cartStore, pushGateway, emailGateway, cfg, logger)

	engineCtx, stopEngine := context.WithCancel(context.Background())
	go reminderEngine.Run(engineCtx)

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), cartService)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	stopEngine()

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}

// newLogger builds the process logger for background components.
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// setupGateways initializes the configured delivery channels. Missing
// providers fall back to the log gateway in development and to nil (skip
// channel) in production.
func setupGateways(cfg *config.Config, logger *logrus.Logger) (push, email notification.Gateway) {
	if cfg.External.Firebase.CredentialsFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fcm, err := notification.NewFCMGateway(ctx, cfg.External.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize FCM gateway: %v", err)
		}
		push = fcm
	} else if cfg.IsDevelopment() {
		push = notification.NewLogGateway(logger)
	}

	if cfg.External.Email.SMTPHost != "" {
		smtp, err := notification.NewSMTPGateway(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize SMTP gateway: %v", err)
		}
		email = smtp
	} else if cfg.IsDevelopment() {
		email = notification.NewLogGateway(logger)
	}

	return push, email
}
