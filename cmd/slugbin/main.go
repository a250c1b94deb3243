package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"slugbin/cfg"
	"slugbin/svc/api"
	"slugbin/svc/auth"
	"slugbin/svc/cache"
	"slugbin/svc/kv"
	"slugbin/svc/lim"
	"slugbin/svc/slug"
	"slugbin/svc/svc"
	"slugbin/svc/util"
)

func main() {
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		util.Fatal().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	if err := cfg.Validate(c); err != nil {
		util.Fatal().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	defer c.Wipe()
	util.InitLog(c.LogLevel, c.Environment == "development")
	util.Info().Msg("starting slugbin API")

	store, err := openStore(c)
	if err != nil {
		util.Fatal().Err(err).Str("backend", c.StoreBackend).Msg("failed to open backing store")
		os.Exit(1)
	}
	defer store.Close()
	util.Info().Str("backend", c.StoreBackend).Msg("backing store ready")

	lruCache, err := cache.NewLRU(c.LRUCacheSize)
	if err != nil {
		util.Fatal().Err(err).Msg("failed to create LRU cache")
		os.Exit(1)
	}
	util.Info().Int("size", c.LRUCacheSize).Msg("LRU cache initialized")

	guard := auth.NewGuard(c.APIKey.Value())
	slugs := slug.New(c.SlugLength)
	pasteSvc := svc.NewPaste(store, lruCache, guard, slugs, c)
	util.Info().Msg("paste service initialized")

	limiter := lim.New(c.RateLimit.RPM, c.RateLimit.Burst, c.TrustedProxies)
	defer limiter.Stop()
	util.Info().
		Int("rpm", c.RateLimit.RPM).
		Int("burst", c.RateLimit.Burst).
		Strs("trusted_proxies", c.TrustedProxies).
		Msg("rate limiter initialized")

	server := api.NewServer(c, pasteSvc, limiter, store)

	util.Info().Str("port", c.Port).Str("environment", c.Environment).Msg("server starting")
	go func() {
		if err := server.Start(); err != nil {
			util.Fatal().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	util.Info().Msg("shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		util.Error().Err(err).Msg("server shutdown error")
	}
	util.Info().Msg("shutdown complete")
}

func openStore(c *cfg.Cfg) (kv.Store, error) {
	switch c.StoreBackend {
	case "redis":
		return kv.NewRedis(kv.RedisConfig{
			URL:      c.RedisURL,
			Username: c.RedisUsername,
			Password: c.RedisPassword.Value(),
			TLS:      c.RedisTLS,
			Timeout:  c.RedisTimeout,
		})
	case "memory":
		return kv.NewMemory(), nil
	default:
		return kv.OpenBolt(c.BoltPath)
	}
}
