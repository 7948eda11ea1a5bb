package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/glossifi/storefront/internal/redisx"
)

var ErrNoSession = errors.New("missing or expired session")

// Sessions keeps admin session tokens in redis: sess:{token} -> admin_id.
type Sessions struct {
	RDB *redis.Client
	TTL time.Duration
}

func (s *Sessions) Create(ctx context.Context, adminID string) (string, error) {
	token := uuid.NewString()
	if err := s.RDB.Set(ctx, fmt.Sprintf(redisx.KeySession, token), adminID, s.TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Sessions) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	adminID, err := s.RDB.Get(ctx, fmt.Sprintf(redisx.KeySession, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return adminID, nil
}

func (s *Sessions) Destroy(ctx context.Context, token string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}
