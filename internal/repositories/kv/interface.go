package kv

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}

var (
	_ Repository = (*SQLRepository)(nil)
	_ Repository = (*InMemoryRepository)(nil)
)
