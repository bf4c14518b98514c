package cache

import (
	"context"
	"errors"
	"time"
)

// Tiered reads through an ordered list of cache layers (fastest first) and
// writes to all of them. A layer error on the read path falls through to the
// next layer instead of failing the lookup. Hits are not copied back into
// earlier layers; those repopulate on the next compute.
type Tiered struct {
	layers []Cache
}

func NewTiered(layers ...Cache) *Tiered {
	return &Tiered{layers: layers}
}

func (t *Tiered) Get(ctx context.Context, key string, dest any) (bool, error) {
	for _, l := range t.layers {
		found, err := l.Get(ctx, key, dest)
		if err != nil {
			continue
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func (t *Tiered) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	var errs []error
	for _, l := range t.layers {
		if err := l.Set(ctx, key, value, ttl, tags...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FlushTags invalidates the tags on every layer that supports the capability;
// layers without it are skipped, not failed.
func (t *Tiered) FlushTags(ctx context.Context, tags ...string) error {
	var errs []error
	for _, l := range t.layers {
		f, ok := l.(TagFlusher)
		if !ok {
			continue
		}
		if err := f.FlushTags(ctx, tags...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Cache      = (*Tiered)(nil)
	_ TagFlusher = (*Tiered)(nil)
)
