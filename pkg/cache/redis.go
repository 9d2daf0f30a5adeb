// Package cache connects to redis and exposes it as a fiber.Storage so
// middleware state (rate-limit counters) can be shared between API instances.
package cache

import (
	"context"
	"fmt"
	"time"

	redisstore "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Connect dials addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return client, nil
}

// NewStorage shares client with fiber middleware. The caller keeps owning
// the client; never Reset the storage, it flushes the whole database.
func NewStorage(client *redis.Client) *redisstore.Storage {
	return redisstore.NewFromConnection(client)
}
