// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"hallbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// LimiterClient is the dedicated client for the shared payment-attempt limiter.
	LimiterClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitLimiterCache initializes the Redis client backing the distributed rate limiter.
func InitLimiterCache() {
	LimiterClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLimiterDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := LimiterClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Limiter): %v", err)
	}
}

// GetLimiterClient returns the Redis client for the distributed rate limiter.
func GetLimiterClient() *redis.Client {
	if LimiterClient == nil {
		InitLimiterCache()
	}
	return LimiterClient
}
