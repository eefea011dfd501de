package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr             string
	UpstreamBaseURL      string
	UpstreamTimeout      time.Duration
	RedisAddr            string
	RedisPassword        string
	SessionSecret        string
	SessionIssuer        string
	SessionTTL           time.Duration
	DeviceCookieTTL      time.Duration
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		UpstreamBaseURL:      getenv("UPSTREAM_BASE_URL", "http://localhost:3001/api/delivery"),
		UpstreamTimeout:      getenvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		RedisAddr:            getenv("REDIS_ADDR", ""),
		RedisPassword:        getenv("REDIS_PASSWORD", ""),
		SessionSecret:        getenv("SESSION_SECRET", "dev-session-secret"),
		SessionIssuer:        getenv("SESSION_ISSUER", "deliv-ad-console"),
		SessionTTL:           getenvDuration("SESSION_TTL", 30*24*time.Hour),
		DeviceCookieTTL:      getenvDuration("DEVICE_COOKIE_TTL", 365*24*time.Hour),
		CacheTTL:             getenvDuration("CACHE_TTL", 30*time.Second),
		CacheCleanupInterval: getenvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
