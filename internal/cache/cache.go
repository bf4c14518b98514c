package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with TTL expiry fronting search reads. Values are
// JSON-serializable; Get unmarshals into dest and reports whether the key was
// present. Backends log their own infrastructure failures; callers treat a
// Get error as a miss and a Set error as a skipped write, never as a request
// failure.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error
}

// TagFlusher is an optional capability: flushing every entry associated with
// any of the given tags in one operation. Backends without it degrade to
// TTL-bounded staleness.
type TagFlusher interface {
	FlushTags(ctx context.Context, tags ...string) error
}

// FlushTags invalidates tags on c if it supports the capability and is a
// no-op otherwise.
func FlushTags(ctx context.Context, c Cache, tags ...string) error {
	if f, ok := c.(TagFlusher); ok {
		return f.FlushTags(ctx, tags...)
	}
	return nil
}

// Remember is the read-through primitive: on a hit it returns the stored value
// without invoking compute; on a miss (or any cache failure) it computes, best-
// effort stores the result under key with the TTL and tags, and returns it.
// The bool reports whether the value came from cache.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, tags []string, compute func(ctx context.Context) (T, error)) (T, bool, error) {
	var v T
	if c != nil {
		if found, err := c.Get(ctx, key, &v); err == nil && found {
			return v, true, nil
		}
	}

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if c != nil {
		_ = c.Set(ctx, key, v, ttl, tags...)
	}
	return v, false, nil
}
