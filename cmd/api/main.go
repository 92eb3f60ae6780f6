package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bebida-express/internal/config"
	"bebida-express/internal/database"
	"bebida-express/internal/kvstore"
	"bebida-express/internal/logger"
	"bebida-express/internal/seed"
	"bebida-express/internal/server"
	"bebida-express/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// In-flight checkouts get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

// openStore connects the configured key-value backend. The returned Redis
// client is non-nil whenever Redis is reachable, whatever the backend.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (kvstore.Store, *redis.Client, error) {
	var redisClient *redis.Client
	if cfg.Storage.Backend == config.StorageRedis || cfg.RateLimit.OrdersPerMinute > 0 {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			if cfg.Storage.Backend == config.StorageRedis {
				return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
			}
			log.Warn("Redis unavailable, checkout rate limiting disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}

	switch cfg.Storage.Backend {
	case config.StorageMemory:
		return kvstore.NewMemoryStore(), redisClient, nil

	case config.StorageRedis:
		return kvstore.NewRedisStore(redisClient, cfg.Redis.KeyPrefix, cfg.Redis.MaxRetries), redisClient, nil

	case config.StoragePostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, redisClient, err
		}
		log.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

		if err := database.RunMigrations(ctx, db, log); err != nil {
			db.Close()
			return nil, redisClient, err
		}
		return kvstore.NewPostgresStore(db), redisClient, nil

	default:
		return nil, redisClient, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func main() {
	// Load configuration
	cfg := config.Load(".env")

	// Initialize logger
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting marketplace API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("commission_source", cfg.Commission.Source),
	)

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	store, redisClient, err := openStore(ctx, cfg, log)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		log.Fatal("Failed to open key-value store", zap.Error(err))
	}

	if cfg.Storage.Seed {
		data, err := seed.Demo(service.BcryptCost)
		if err != nil {
			log.Fatal("Failed to build demo data", zap.Error(err))
		}
		if err := seed.Apply(ctx, store, data, log); err != nil {
			log.Fatal("Failed to seed key-value store", zap.Error(err))
		}
	}

	// Create server
	srv := server.NewServer(cfg, log, store, redisClient)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}
