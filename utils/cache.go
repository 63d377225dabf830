package utils

import (
	"context"
	"log"
	"time"

	"bookwala/config"

	"github.com/go-redis/redis/v8"
)

var (
	// ConvoCacheClient is the dedicated client for conversation state.
	ConvoCacheClient *redis.Client
	// DedupCacheClient is the dedicated client for webhook message dedup.
	DedupCacheClient *redis.Client
)

// InitConvoCache initializes the Redis client for conversation state.
func InitConvoCache() {
	ConvoCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisConvoDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ConvoCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Convo): %v", err)
	}
}

// GetConvoCacheClient returns the conversation state client.
func GetConvoCacheClient() *redis.Client {
	if ConvoCacheClient == nil {
		InitConvoCache()
	}
	return ConvoCacheClient
}

// InitDedupCache initializes the Redis client for webhook dedup.
func InitDedupCache() {
	DedupCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDedupDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DedupCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Dedup): %v", err)
	}
}

// GetDedupCacheClient returns the webhook dedup client.
func GetDedupCacheClient() *redis.Client {
	if DedupCacheClient == nil {
		InitDedupCache()
	}
	return DedupCacheClient
}
