package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"drive-me-local/config"
	domain "drive-me-local/internal/domain/session"
)

const keyPrefix = "drive:session:"

// RedisStore lets several server processes share sessions. Expiry is left to
// the key TTL.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(ctx context.Context, logger *zap.Logger, cfg config.Session) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("redis session store connected successfully", zap.String("addr", cfg.RedisAddr))

	return &RedisStore{client: client, now: time.Now}, nil
}

func (r *RedisStore) Save(ctx context.Context, s domain.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, keyPrefix+s.ID, b, ttl).Err()
}

func (r *RedisStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	b, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	s := new(domain.Session)
	if err = json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, nil
	}

	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, keyPrefix+id).Err()
}

func (r *RedisStore) Close() error { return r.client.Close() }
