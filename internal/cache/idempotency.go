package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// IdempotencyStore binds an Idempotency-Key header to the order it created.
type IdempotencyStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewIdempotencyStore(client *RedisClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func idempotencyKey(key string) string {
	return "idempotent-key:orders:" + key
}

// Claim reserves key. When the key was already used it returns the bound
// order id, or "" with claimed=false while the first request is in flight.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (orderID string, claimed bool, err error) {
	ok, err := s.client.Client.SetNX(ctx, idempotencyKey(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Client.Get(ctx, idempotencyKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls
		return s.Claim(ctx, key)
	}
	if err != nil {
		return "", false, err
	}
	if val == pendingMarker {
		return "", false, nil
	}
	return val, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	return s.client.Client.Set(ctx, idempotencyKey(key), orderID, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Client.Del(ctx, idempotencyKey(key)).Err()
}
