package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

// Memory is the in-process cache tier backed by sturdyc (sharded, stampede
// resistant). Entries expire on the client-wide TTL configured at construction;
// the per-call ttl argument is ignored. A tag index is kept alongside so the
// tier supports FlushTags despite sturdyc having no tag concept.
type Memory struct {
	client *sturdyc.Client[[]byte]

	mu   sync.Mutex
	tags map[string]map[string]struct{} // tag -> set of keys
}

func NewMemory(capacity, shards int, ttl time.Duration, evictionPct int) *Memory {
	return &Memory{
		client: sturdyc.New[[]byte](capacity, shards, ttl, evictionPct),
		tags:   make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Get(ctx context.Context, key string, dest any) (bool, error) {
	b, ok := m.client.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, _ time.Duration, tags ...string) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.client.Set(key, b)

	if len(tags) > 0 {
		m.mu.Lock()
		for _, tag := range tags {
			keys, ok := m.tags[tag]
			if !ok {
				keys = make(map[string]struct{})
				m.tags[tag] = keys
			}
			keys[key] = struct{}{}
		}
		m.mu.Unlock()
	}
	return nil
}

// FlushTags deletes every key registered under any of the given tags. Keys
// already evicted by sturdyc are deleted harmlessly.
func (m *Memory) FlushTags(ctx context.Context, tags ...string) error {
	m.mu.Lock()
	seen := make(map[string]struct{})
	for _, tag := range tags {
		for key := range m.tags[tag] {
			seen[key] = struct{}{}
		}
		delete(m.tags, tag)
	}
	m.mu.Unlock()

	for key := range seen {
		m.client.Delete(key)
	}
	return nil
}

var (
	_ Cache      = (*Memory)(nil)
	_ TagFlusher = (*Memory)(nil)
)
