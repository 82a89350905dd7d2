package ratelimit

import (
	"net"
	"strconv"

	"github.com/gofiber/storage/redis"

	"github.com/LukasDorner/StreamGate/internal/pkg/cache"
	"github.com/LukasDorner/StreamGate/internal/pkg/env"
)

var storage *redis.Storage

// NewStorage returns a Redis-backed storage for the rate limiter so counters
// survive restarts and are shared across instances. It reuses the cache
// connection settings but a separate database (cache uses DB 0).
func NewStorage() *redis.Storage {
	if storage != nil {
		return storage
	}

	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient := cache.GetClient(); cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	return storage
}
