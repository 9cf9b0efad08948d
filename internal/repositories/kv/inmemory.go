package kv

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/common"
)

// InMemoryRepository keeps values in a map. Values are copied on the way in
// and out so callers cannot mutate stored bytes.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string][]byte)}
}

func clone(b []byte) []byte {
	return append([]byte{}, b...)
}

func (r *InMemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(v), nil
}

func (r *InMemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[key] = clone(value)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, key string) error {
	return r.DeleteMany(ctx, key)
}

func (r *InMemoryRepository) DeleteMany(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		delete(r.data, k)
	}
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]byte, len(r.data))
	for k, v := range r.data {
		out[k] = clone(v)
	}
	return out, nil
}
