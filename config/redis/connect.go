package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/LafyOjo/APIShield-Plus-sub000/config"

	goredis "github.com/redis/go-redis/v9"
)

// defaultConnectTimeout bounds the initial ping.
const defaultConnectTimeout = 5 * time.Second

// Connect establishes a Redis connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
