// Package sessionstore provides drivers for the transient challenge-session
// store: an in-memory driver for single-process deployments and tests, and a
// Redis driver for deployments where sessions must survive a restart.
package sessionstore

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
)

// StoreType selects the session store driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

var (
	// ErrInvalidStoreType indicates an unsupported driver name.
	ErrInvalidStoreType = errors.New("invalid session store type")
	// ErrInvalidConfig indicates a driver is missing required configuration.
	ErrInvalidConfig = errors.New("invalid session store config")
)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
}

// StoreOption configures a session store driver.
type StoreOption func(*storeConfig)

// WithRedisClient supplies the Redis client for the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(cfg *storeConfig) {
		cfg.redisClient = client
	}
}

// WithRedisTTL bounds how long an unconsumed session survives in Redis.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(cfg *storeConfig) {
		cfg.redisTTL = ttl
	}
}

// New creates a session store for the given driver type.
// The redis driver requires WithRedisClient.
func New(storeType StoreType, opts ...StoreOption) (storage.SessionStore, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{client: config.redisClient, ttl: ttl}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}
