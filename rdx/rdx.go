// Package rdx wraps the optional Redis connection. Every helper is nil-safe:
// without REDIS_ADDR the server runs with caching and pubsub disabled.
package rdx

import (
	"log"

	"github.com/redis/go-redis/v9"

	"eventhorizon/globals"
)

var Conn *redis.Client

// Connect dials Redis; a failed ping leaves Conn nil and the caches off.
func Connect(addr string) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(globals.Ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, continuing without cache: %v", addr, err)
		return
	}
	Conn = client
}

func RdxSet(key, value string) error {
	if Conn == nil {
		return nil
	}
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxHset(hash, field, value string) error {
	if Conn == nil {
		return nil
	}
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHdel(hash, field string) error {
	if Conn == nil {
		return nil
	}
	return Conn.HDel(globals.Ctx, hash, field).Err()
}
