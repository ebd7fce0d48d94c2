package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis when an address is configured. A nil client is
// a valid result: the reset activity guard then falls back to its in-memory
// window.
func InitRedis(cfg *Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		log.Println("ℹ️  REDIS_ADDR not set, reset activity guard will run in-memory")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return rdb, nil
}
