package cart

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps cart snapshots in Redis. Snapshots have no TTL; a cart
// survives until the shopper clears it or checks out.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, snapshot []byte) error {
	return s.client.Set(ctx, key, snapshot, 0).Err()
}
