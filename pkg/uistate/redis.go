package uistate

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the durable backend. Keys are namespaced per session
// so every browser keeps its own filters, sort key and favorites
// across reloads.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

const defaultTTL = 30 * 24 * time.Hour

func NewRedisStore(addr, password string, db int, prefix string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: prefix,
		ttl:    defaultTTL,
	}
}

// ForSession returns a store view namespaced under one session id.
func (r *RedisStore) ForSession(sessionId string) *RedisStore {
	return &RedisStore{
		client: r.client,
		prefix: r.prefix + ":" + sessionId,
		ttl:    r.ttl,
	}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + ":" + k
}

func (r *RedisStore) Get(key string) ([]byte, bool, error) {
	data, err := r.client.Get(context.Background(), r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisStore) Set(key string, value []byte) error {
	return r.client.Set(context.Background(), r.key(key), value, r.ttl).Err()
}

func (r *RedisStore) Delete(key string) error {
	return r.client.Del(context.Background(), r.key(key)).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
