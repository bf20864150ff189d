// Package redisstore keeps the anonymous usage counters in Redis instead of
// the relational store. INCR is atomic, so concurrent requests from the same
// client serialize on the Redis side.
package redisstore

import (
	"context"
	"errors"

	"askq-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "askq:anon_count:"

type AnonymousCountRepository struct {
	rdb *redis.Client
}

func NewAnonymousCountRepository(rdb *redis.Client) contract.AnonymousCountRepository {
	return &AnonymousCountRepository{rdb: rdb}
}

func (r *AnonymousCountRepository) Get(ctx context.Context, key string) (int, error) {
	n, err := r.rdb.Get(ctx, keyPrefix+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (r *AnonymousCountRepository) Increment(ctx context.Context, key string) (int, error) {
	n, err := r.rdb.Incr(ctx, keyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
