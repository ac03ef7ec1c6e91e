package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a Redis client for blob persistence, or nil when
// REDIS_ADDR is unset or unreachable (the caller falls back to another
// backend).
func ConnectRedis() *redis.Client {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: failed to connect to Redis at %s: %v", redisAddr, err)
		return nil
	}

	log.Println("Redis connected successfully")
	return client
}
