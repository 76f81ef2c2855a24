package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisCredentialPrefix = "session:credential:"

type redisCredentialRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCredentialRepository returns a Redis-backed implementation. The TTL
// caps how long an idle credential survives; every Save refreshes it.
func NewRedisCredentialRepository(client *redis.Client, ttl time.Duration) CredentialRepository {
	return &redisCredentialRepository{client: client, ttl: ttl}
}

func (r *redisCredentialRepository) Save(ctx context.Context, sessionID, credential string) error {
	return r.client.Set(ctx, redisCredentialPrefix+sessionID, credential, r.ttl).Err()
}

func (r *redisCredentialRepository) Get(ctx context.Context, sessionID string) (string, error) {
	credential, err := r.client.Get(ctx, redisCredentialPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoCredential
		}
		return "", err
	}
	return credential, nil
}

func (r *redisCredentialRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, redisCredentialPrefix+sessionID).Err()
}
