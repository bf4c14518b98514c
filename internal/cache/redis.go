package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// tagSetPrefix namespaces the Redis sets that track which keys belong to a tag.
const tagSetPrefix = "cachetag:"

// Redis is the shared cache tier. Values are stored as JSON with a TTL; tags
// are modeled as Redis sets holding the member keys so a tag flush is a set
// read plus a bulk delete.
type Redis struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewRedis(rdb *redis.Client, logger *logrus.Logger) *Redis {
	return &Redis{rdb: rdb, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).WithField("key", key).Warn("redis get failed")
		}
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, key, b, ttl)
	for _, tag := range tags {
		tagKey := tagSetPrefix + tag
		pipe.SAdd(ctx, tagKey, key)
		// Members expire no later than this write, so the set can follow.
		pipe.Expire(ctx, tagKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).WithField("key", key).Warn("redis set failed")
		}
		return err
	}
	return nil
}

// FlushTags deletes every key recorded under any of the given tags, then the
// tag sets themselves.
func (r *Redis) FlushTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := tagSetPrefix + tag
		keys, err := r.rdb.SMembers(ctx, tagKey).Result()
		if err != nil {
			if r.logger != nil {
				r.logger.WithError(err).WithField("tag", tag).Warn("redis tag read failed")
			}
			return err
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithField("tag", tag).Warn("redis tag flush failed")
				}
				return err
			}
		}
		if err := r.rdb.Del(ctx, tagKey).Err(); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Cache      = (*Redis)(nil)
	_ TagFlusher = (*Redis)(nil)
)
