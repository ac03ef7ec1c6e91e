package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "licito3:"

// RedisStore persists blobs in Redis. Snapshots have no TTL; the services own
// retention (history cap, notification cleanup).
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ctx: context.Background()}
}

func (s *RedisStore) Save(key string, data []byte) error {
	return s.client.Set(s.ctx, redisKeyPrefix+key, data, 0).Err()
}

func (s *RedisStore) Load(key string) ([]byte, error) {
	data, err := s.client.Get(s.ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *RedisStore) Delete(key string) error {
	return s.client.Del(s.ctx, redisKeyPrefix+key).Err()
}
