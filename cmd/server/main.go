package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ssshpaklevka/deliv-ad/internal/cache"
	"github.com/ssshpaklevka/deliv-ad/internal/config"
	internalhttp "github.com/ssshpaklevka/deliv-ad/internal/http"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
	"github.com/ssshpaklevka/deliv-ad/internal/upstream"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		log.Printf("REDIS_ADDR not set, sessions are in-memory and die with the process")
		sessions = session.NewMemoryStore()
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, sessions)

	queryCache := cache.New(cfg.CacheTTL)
	queryCache.StartJanitor(ctx, cfg.CacheCleanupInterval)

	server := internalhttp.NewServer(cfg, sessions, client, queryCache)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("console http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
