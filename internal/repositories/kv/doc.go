// Package kv provides the key-value store that backs the profile manager.
//
// # Overview
//
// Repository is a byte-oriented map keyed by strings. Every single-key write
// is atomic; DeleteMany removes several keys in one transaction where the
// backend supports it. There is no other cross-key guarantee.
//
// Implementations
//
//   - SQLRepository over SQLite (modernc.org/sqlite) or PostgreSQL (pgx stdlib),
//     both upserting into the kv table created by internal/migrations
//   - InMemoryRepository, a mutex-guarded map for tests and ephemeral runs
//
// Get returns common.ErrNotFound for keys that were never written, so callers
// can tell "absent" apart from an empty value.
package kv
