// Package flash keeps one-shot toast messages between a redirect and the
// next rendered page.
package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/auth-ui/internal/model"
)

// Store holds pending toasts per browser. Pop returns and removes them.
type Store interface {
	Push(ctx context.Context, id string, toast model.Toast) error
	Pop(ctx context.Context, id string) ([]model.Toast, error)
	Name() string
}

// MemoryStore keeps toasts in process. It suits single instance setups.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Push(_ context.Context, id string, toast model.Toast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []model.Toast
	if v, found := s.cache.Get(id); found {
		pending, _ = v.([]model.Toast)
	}
	s.cache.Set(id, append(pending, toast), s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, id string) ([]model.Toast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, found := s.cache.Get(id)
	if !found {
		return nil, nil
	}
	s.cache.Delete(id)
	pending, _ := v.([]model.Toast)
	return pending, nil
}

// RedisStore shares toasts between instances through a Redis list per
// browser.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "authui:flash:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Push(ctx context.Context, id string, toast model.Toast) error {
	data, err := json.Marshal(toast)
	if err != nil {
		return fmt.Errorf("failed to marshal toast: %w", err)
	}

	key := s.key(id)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push toast: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, id string) ([]model.Toast, error) {
	key := s.key(id)

	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pop toasts: %w", err)
	}

	raw := items.Val()
	if len(raw) == 0 {
		return nil, nil
	}

	toasts := make([]model.Toast, 0, len(raw))
	for _, item := range raw {
		var t model.Toast
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts, nil
}
