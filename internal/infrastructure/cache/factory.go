package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/auth"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the Redis backed stores of the process, each with an
// in-memory fallback when Redis is disabled or unreachable
type Stores struct {
	Client      *redis.Client
	Articles    *TieredArticleCache
	Fallback    *InMemoryArticleCache
	Idempotency shared.IdempotencyStore
	Blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewRedisClient connects to Redis and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewStores builds the stores. When requireRedis is false, a Redis failure
// is logged and the in-memory variants are used.
func NewStores(ctx context.Context, cfg config.RedisConfig, requireRedis bool, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stores{logger: logger}

	if cfg.Enabled {
		client, err := NewRedisClient(ctx, cfg)
		switch {
		case err == nil:
			s.Client = client
		case requireRedis:
			return nil, err
		default:
			logger.Warn("Redis unavailable, using in-memory caches. "+
				"Duplicate event processing is possible with several instances.", zap.Error(err))
		}
	}

	if s.Client == nil {
		s.Fallback = NewInMemoryArticleCache()
		s.Idempotency = NewInMemoryIdempotencyStore()
		s.Blacklist = auth.NewInMemoryTokenBlacklist()
		return s, nil
	}

	invalidator := NewRedisArticleInvalidator(s.Client, uuid.NewString(), logger)
	s.Articles = NewTieredArticleCache(NewInMemoryArticleCache(), NewRedisArticleCache(s.Client), invalidator, logger)
	s.Idempotency = NewRedisIdempotencyStore(s.Client)
	s.Blacklist = auth.NewRedisTokenBlacklist(s.Client)
	logger.Info("Using Redis caches", zap.String("addr", cfg.Addr()))
	return s, nil
}

// ArticleStore is an article cache that owns background resources
type ArticleStore interface {
	SharedArticleStore
	io.Closer
}

// ArticleCache returns whichever article cache is active
func (s *Stores) ArticleCache() ArticleStore {
	if s.Articles != nil {
		return s.Articles
	}
	return s.Fallback
}

// Close releases caches and the Redis client
func (s *Stores) Close() error {
	if s.Articles != nil {
		_ = s.Articles.Close()
	}
	if s.Fallback != nil {
		_ = s.Fallback.Close()
	}
	if s.Idempotency != nil {
		_ = s.Idempotency.Close()
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
