package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	h "github.com/fjod/storefront/internal/http"
	"github.com/fjod/storefront/internal/kv"
	"github.com/fjod/storefront/internal/poller"
	"github.com/fjod/storefront/internal/session"
	"github.com/fjod/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, l)
	if err != nil {
		l.Fatal("failed to open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeStore()

	products := catalog.New()

	engine := cart.NewEngine(store, cart.WithLogger(l.Named("cart")))
	engine.Init(ctx)

	sessions := session.NewManager(store, session.WithLogger(l.Named("session")))
	sessions.Init(ctx)

	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.KafkaEnabled() {
		p := poller.NewPoller(engine, sessions, l.Named("poller"), cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(pollCtx)
		l.Info("checkout consumer started", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	handler := h.NewRouter(h.RouterConfig{
		Catalog:        h.NewCatalogHandler(products),
		Cart:           h.NewCartHandler(engine, products, cfg.TaxRate),
		Auth:           h.NewAuthHandler(sessions),
		Logger:         l.Named("http"),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info("storefront starting", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}
	if err := engine.Close(shutdownCtx); err != nil {
		l.Warn("final cart flush failed", zap.Error(err))
	}
	if err := sessions.Close(shutdownCtx); err != nil {
		l.Warn("final session flush failed", zap.Error(err))
	}

	l.Info("server exited")
}

// openStore builds the configured key-value backend. Remote backends sit
// behind a circuit breaker.
func openStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (kv.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		l.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

		store := kv.NewRedisStore(client, cfg.RedisPrefix, cfg.RedisTTL)
		breaker := kv.NewBreakerStore(store, "redis-kv", cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout, l.Named("breaker"))
		return breaker, func() { client.Close() }, nil

	case config.BackendMongo:
		db, err := kv.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		l.Info("connected to mongodb", zap.String("db", cfg.MongoDBName))

		store := kv.NewMongoStore(db)
		if err := store.CreateIndexes(ctx, cfg.MongoTTL); err != nil {
			l.Warn("failed to create kv indexes", zap.Error(err))
		}
		breaker := kv.NewBreakerStore(store, "mongo-kv", cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout, l.Named("breaker"))
		return breaker, func() { db.Client().Disconnect(context.Background()) }, nil

	default:
		return kv.NewMemoryStore(), func() {}, nil
	}
}
