package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis so conversations survive a process
// restart. Orders do not, which is an accepted limitation; sessions are the
// cheap part to keep.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A zero TTL means the
// keys never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, contact string) (Session, bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+contact).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Put(ctx context.Context, contact string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+contact, data, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, contact string) error {
	return r.client.Del(ctx, keyPrefix+contact).Err()
}
