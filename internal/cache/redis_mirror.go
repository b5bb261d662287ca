package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror is the optional cross-instance mirror for the coalescing
// cache. Adapted from the teacher's Redis adapter: connect-and-ping at
// construction time, a minimal Get/Set surface, nothing more.
type RedisMirror struct {
	rdb *redis.Client
}

// NewRedisMirror connects to Redis and verifies connectivity with a ping.
// Callers treat a non-nil error as "run without a mirror" rather than fatal,
// since the mirror is a best-effort copy, not a correctness dependency.
func NewRedisMirror(addr string, db int) (*RedisMirror, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     20,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: redis mirror ping failed (%s): %w", addr, err)
	}

	slog.Info("cache: redis mirror connected", "addr", addr, "db", db)
	return &RedisMirror{rdb: rdb}, nil
}

func (m *RedisMirror) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.rdb.Set(ctx, key, value, ttl).Err()
}

func (m *RedisMirror) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := m.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("cache: key not found: %s", key)
	}
	return val, err
}

func (m *RedisMirror) Close() error {
	return m.rdb.Close()
}
