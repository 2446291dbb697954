package redisStore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// this for the consumption store
func (s *Store) ListPush(ctx context.Context, key string, value interface{}) error {
	return s.client.RPush(ctx, key, value).Err()
}

func (s *Store) ListTrimLast(ctx context.Context, key string, keep int64) error {
	return s.client.LTrim(ctx, key, -keep, -1).Err()
}

func (s *Store) listLen(ctx context.Context, key string) (int64, error) {
	return s.client.LLen(ctx, key).Result()
}

// ListGetRecent returns up to n entries from the tail of the list, oldest
// first. A missing key yields an empty slice.
func (s *Store) ListGetRecent(ctx context.Context, key string, n int64) ([]string, error) {
	count, err := s.listLen(ctx, key)
	if count < 1 || err != nil {
		return []string{}, err
	}
	if count < n {
		return s.ListGetAll(ctx, key)
	}
	return s.listGetFrom(ctx, key, -n)
}

func (s *Store) ListGetAll(ctx context.Context, key string) ([]string, error) {
	return s.listGetFrom(ctx, key, int64(0))
}

func (s *Store) listGetFrom(ctx context.Context, key string, start int64) ([]string, error) {
	result, err := s.client.LRange(ctx, key, start, -1).Result()
	return result, err
}
