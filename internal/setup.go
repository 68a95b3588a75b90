package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookrepository/config"
	"bookrepository/internal/book"
	"bookrepository/internal/db"
	"bookrepository/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const checkTimeout = 2 * time.Second

func Setup() {
	serverConfig := config.LoadServerConfig()
	mongoConfig := config.LoadMongoConfig()
	redisConfig := config.LoadRedisConfig()

	logger, err := NewLogger(serverConfig.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Setup database connection
	client, database, err := db.Connect(mongoConfig)
	if err != nil {
		zap.S().Fatalf("Error connecting to database: %v", err)
	}

	// Setup Redis client, the service runs uncached without it
	var rdb *redis.Client
	if redisConfig.Enabled {
		rdb, err = StartRedisClient(redisConfig)
		if err != nil {
			zap.S().Warnw("Redis unavailable, book cache disabled", "addr", redisConfig.Addr, "error", err)
			rdb = nil
		}
	}

	repo := book.NewBookRepository(database, mongoConfig.Collection)
	svc := book.NewBookService(&repo.Repository, rdb, redisConfig.CacheTTL)

	readiness := map[string]healthcheck.Check{
		"mongodb": healthcheck.Timeout(func() error { return db.Ping(client, checkTimeout) }, checkTimeout),
	}
	if rdb != nil {
		readiness["redis"] = healthcheck.Timeout(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()
			return rdb.Ping(ctx).Err()
		}, checkTimeout)
	}
	health := NewHealthHandler(readiness)

	// Setup gRPC health server
	healthServer, err := StartHealthServer(serverConfig.HealthAddr, readiness)
	if err != nil {
		zap.S().Fatalf("failed to start gRPC health server: %v", err)
	}

	// Setup HTTP server
	gin.SetMode(serverConfig.GinMode)
	srv := &http.Server{
		Addr:    serverConfig.Addr,
		Handler: routes.SetupRoutes(svc, health),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("Server failed to start: %v", err)
		}
	}()

	zap.S().Infof("Book service listening on %s", serverConfig.Addr)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zap.S().Infow("Shutting down book service", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	// Stop services
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorf("Server forced to shutdown: %v", err)
	}
	healthServer.Stop()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zap.S().Errorf("Error closing Redis client: %v", err)
		}
	}
	if err := client.Disconnect(ctx); err != nil {
		zap.S().Errorf("Error disconnecting from database: %v", err)
	}

	zap.S().Info("Book service shut down gracefully")
}

func NewLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	return cfg.Build()
}

func StartRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	options := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	}
	rdb := redis.NewClient(options)

	// Test connection
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}

	// Eviction settings are best effort
	if err := SetupRedisCache(rdb, config.CacheConfig{
		MaxMemory: "256mb",
		Policy:    "allkeys-lru",
	}); err != nil {
		zap.S().Warnw("Could not configure Redis eviction", "error", err)
	}

	return rdb, nil
}

func SetupRedisCache(client *redis.Client, config config.CacheConfig) error {
	ctx := context.Background()

	if config.MaxMemory != "" {
		if err := client.ConfigSet(ctx, "maxmemory", config.MaxMemory).Err(); err != nil {
			return fmt.Errorf("failed to set maxmemory: %w", err)
		}
		zap.S().Infof("Set Redis max memory to: %s", config.MaxMemory)
	}

	if config.Policy != "" {
		if err := client.ConfigSet(ctx, "maxmemory-policy", config.Policy).Err(); err != nil {
			return fmt.Errorf("failed to set maxmemory-policy: %w", err)
		}
		zap.S().Infof("Set Redis eviction policy to: %s", config.Policy)
	}

	return VerifyConfig(client)
}

func VerifyConfig(client *redis.Client) error {
	ctx := context.Background()

	maxMem, err := client.ConfigGet(ctx, "maxmemory").Result()
	if err != nil {
		return fmt.Errorf("failed to get maxmemory config: %w", err)
	}

	policy, err := client.ConfigGet(ctx, "maxmemory-policy").Result()
	if err != nil {
		return fmt.Errorf("failed to get maxmemory-policy config: %w", err)
	}

	zap.S().Infow("Current Redis configuration", "maxmemory", maxMem, "policy", policy)
	return nil
}
