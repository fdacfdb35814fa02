package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mcare/storefront/config"
	"github.com/mcare/storefront/internal/domain"
	httpDelivery "github.com/mcare/storefront/internal/delivery/http"
	"github.com/mcare/storefront/internal/infrastructure/newsletter"
	"github.com/mcare/storefront/internal/infrastructure/storage"
	"github.com/mcare/storefront/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting mcare storefront",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Type))

	// Initialize infrastructure dependencies
	store, closeStore, err := newKeyValueStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise storage", zap.Error(err))
	}
	defer closeStore()

	carts := storage.NewCartRepository(store)

	newsletterClient := newsletter.NewClient(
		cfg.Newsletter.Endpoint,
		cfg.Newsletter.Timeout,
		cfg.RateLimit.Newsletter,
		logger,
	)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		newsletterClient.SetDebug(true)
		logger.Debug("newsletter client debug mode enabled")
	}

	// Initialize usecase layer
	policy := usecase.NewShippingPolicy(cfg.Shipping.FreeThreshold, cfg.Shipping.FlatFee)
	sessions := usecase.NewCartSessions(carts, cfg.Storage.CartKey, policy, logger)
	sessions.SetIdleTimeout(sessionIdle(cfg.Storage))
	newsletterService := usecase.NewNewsletterService(newsletterClient, logger)
	structuredData := usecase.NewStructuredDataService(logger)

	logger.Info("shipping policy",
		zap.String("free_above", policy.FreeThreshold.String()),
		zap.String("flat_fee", policy.FlatFee.String()))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(sessions, newsletterService, structuredData, cfg.Page.BaseURL, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newKeyValueStore builds the configured cart storage. An unreachable Redis is
// only a warning: carts degrade to empty until it comes back.
func newKeyValueStore(cfg *config.Config, logger *zap.Logger) (domain.KeyValueStore, func(), error) {
	switch cfg.Storage.Type {
	case "redis":
		redisStore, err := storage.NewRedisStore(cfg.Storage.RedisURL, cfg.Storage.TTL)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			logger.Warn("redis not reachable, carts will load empty", zap.Error(err))
		}

		return redisStore, func() { _ = redisStore.Close() }, nil
	default:
		logger.Info("using in-memory cart storage", zap.Duration("ttl", cfg.Storage.TTL))
		memoryStore := storage.NewMemoryStore(cfg.Storage.TTL)
		return memoryStore, func() { _ = memoryStore.Close() }, nil
	}
}

// sessionIdle keeps in-memory carts no longer than storage keeps them
func sessionIdle(cfg config.StorageConfig) time.Duration {
	if cfg.TTL > 0 && cfg.TTL < cfg.SessionIdle {
		return cfg.TTL
	}
	return cfg.SessionIdle
}
