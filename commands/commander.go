// Package commands is the primitive command surface of the backing key-value
// store. Everything above it talks in keys and raw values; decoding into
// domain types happens in the cache package.
package commands

import "context"

// Commander issues primitive store commands.
//
// The awaited methods block until the store acknowledges the command. The
// *Forget methods submit the command without waiting for acknowledgment:
// they are best-effort, cannot report failure to the caller, and exist for
// write-heavy fan-out paths that do not need per-write confirmation. Both
// kinds execute in issue order on the same underlying connection.
type Commander interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error

	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SRem(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)

	// HGetAll returns the hash contents as a flattened field, value, field,
	// value sequence. An empty slice means the key does not exist.
	HGetAll(ctx context.Context, key string) ([]string, error)
	HSet(ctx context.Context, key string, fieldValues ...string) error
	HDel(ctx context.Context, key string, fields ...string) error

	RPush(ctx context.Context, key string, values ...string) error
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// MGet returns one entry per key, nil for keys that do not exist.
	MGet(ctx context.Context, keys ...string) ([][]byte, error)

	SetForget(key, value string)
	DelForget(keys ...string)
	SAddForget(key string, members ...string)
	SRemForget(key string, members ...string)
	HSetForget(key string, fieldValues ...string)
	HDelForget(key string, fields ...string)
}
