package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to url (redis://host:port/db) and checks the connection.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	var opts, err = redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	var client = redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisFromClient(client, ttl), nil
}

func NewRedisFromClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (perft.MoveCountMap, bool, error) {
	var data, err = r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var counts perft.MoveCountMap
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, false, fmt.Errorf("decode %v: %w", key, err)
	}
	if counts == nil {
		counts = perft.MoveCountMap{}
	}
	return counts, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, counts perft.MoveCountMap) error {
	var data, err = json.Marshal(counts)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
