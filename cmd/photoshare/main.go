package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"photoshare/internal/config"
	"photoshare/internal/logger"
	"photoshare/internal/routing"
	"photoshare/pkg/api"
	"photoshare/pkg/cache"
	"photoshare/pkg/claims"
	"photoshare/pkg/generator"
	"photoshare/pkg/notify"
	"photoshare/pkg/session"
)

func main() {
	cfg, err := config.Load() // env vars, optionally from the file named by $START
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logger.Load(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := loadCache(ctx, cfg, logger)
	defer closeStore()

	backend := api.New(api.Config{
		BaseURL:    cfg.APIBaseURL(),
		Token:      claims.TokenFromContext,
		OnError:    notify.Error,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Cache:      store,
		CacheTTL:   cfg.CacheTTL,
		Logger:     logger,
	})

	key := cfg.SessionKey
	if key == "" {
		if key, err = generator.RandomKey(32); err != nil {
			log.Fatalf("session key: %v", err)
		}
		logger.Warn("SESSION_KEY is not set, pending notifications will not survive a restart")
	}
	flasher := notify.NewCookieFlasher([]byte(key), cfg.CookieSecure)

	r := mux.NewRouter()
	if err := routing.ServeStaticFiles(r); err != nil {
		log.Fatal(err)
	}
	if err := routing.InitRoutes(r, backend, session.NewCookieStore(cfg.CookieSecure), flasher, logger); err != nil {
		log.Fatal(err)
	}

	if err := routing.StartServer(ctx, cfg.Addr, r, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// loadCache picks redis when REDIS_ADDR is set and reachable, the in-process
// store otherwise.
func loadCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return cache.NewMemoryStore(), func() {}
	}

	logger.Info("redis cache connected", "addr", cfg.RedisAddr)
	return cache.NewRedisStore(client), func() {
		if err := client.Close(); err != nil {
			logger.Error("redis close", "error", err)
		}
	}
}
