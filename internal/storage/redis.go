package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const driverRedis = "redis"

// RedisBackend stores documents as plain Redis strings with native TTLs.
// It fills the remote object-store role: cheap key/value access shared
// across processes, prefix scans via SCAN. Redis keeps no per-key update
// time, so List always orders by key.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend wraps an existing Redis client.
func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(driverRedis, "get", err)
	}
	return val, nil
}

func (b *RedisBackend) Save(ctx context.Context, key string, value []byte, opts SaveOptions) error {
	if err := b.rdb.Set(ctx, key, value, opts.TTL).Err(); err != nil {
		return unavailable(driverRedis, "save", err)
	}
	if len(opts.Metadata) > 0 {
		metaKey := key + "#meta"
		pipe := b.rdb.Pipeline()
		pipe.Del(ctx, metaKey)
		pipe.HSet(ctx, metaKey, opts.Metadata)
		if opts.TTL > 0 {
			pipe.Expire(ctx, metaKey, opts.TTL)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return unavailable(driverRedis, "save", err)
		}
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.rdb.Del(ctx, key, key+"#meta").Err(); err != nil {
		return unavailable(driverRedis, "delete", err)
	}
	return nil
}

func (b *RedisBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, unavailable(driverRedis, "exists", err)
	}
	return n > 0, nil
}

func (b *RedisBackend) List(ctx context.Context, prefix string, opts ListOptions) ([]Item, error) {
	var keys []string
	iter := b.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		if strings.HasSuffix(k, "#meta") {
			continue
		}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable(driverRedis, "list", err)
	}

	if strings.EqualFold(opts.OrderDirection, OrderDesc) {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Strings(keys)
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(keys) {
			return nil, nil
		}
		keys = keys[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(keys) {
		keys = keys[:opts.Limit]
	}
	if len(keys) == 0 {
		return nil, nil
	}

	vals, err := b.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(driverRedis, "list", err)
	}

	items := make([]Item, 0, len(keys))
	for i, v := range vals {
		// Keys can expire between SCAN and MGET.
		s, ok := v.(string)
		if !ok {
			continue
		}
		items = append(items, Item{Key: keys[i], Value: []byte(s)})
	}
	return items, nil
}

func (b *RedisBackend) BulkSave(ctx context.Context, items []Item) ([]KeyError, error) {
	if len(items) == 0 {
		return nil, nil
	}

	pipe := b.rdb.Pipeline()
	cmds := make([]*redis.StatusCmd, len(items))
	for i, it := range items {
		cmds[i] = pipe.Set(ctx, it.Key, it.Value, it.Options.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil && !isPerKeyError(err) {
		return nil, unavailable(driverRedis, "bulk_save", err)
	}

	var failed []KeyError
	for i, cmd := range cmds {
		if err := cmd.Err(); err != nil {
			failed = append(failed, KeyError{Key: items[i].Key, Err: err})
		}
	}
	return failed, nil
}

func (b *RedisBackend) BulkDelete(ctx context.Context, keys []string) ([]KeyError, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := b.rdb.Pipeline()
	cmds := make([]*redis.IntCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.Del(ctx, k, k+"#meta")
	}
	if _, err := pipe.Exec(ctx); err != nil && !isPerKeyError(err) {
		return nil, unavailable(driverRedis, "bulk_delete", err)
	}

	var failed []KeyError
	for i, cmd := range cmds {
		if err := cmd.Err(); err != nil {
			failed = append(failed, KeyError{Key: keys[i], Err: err})
		}
	}
	return failed, nil
}

func (b *RedisBackend) Healthy(ctx context.Context) bool {
	return b.rdb.Ping(ctx).Err() == nil
}

func (b *RedisBackend) HealthStatus(ctx context.Context) HealthStatus {
	if err := b.rdb.Ping(ctx).Err(); err != nil {
		return HealthStatus{Healthy: false, Driver: driverRedis, Error: err.Error()}
	}
	return HealthStatus{
		Healthy: true,
		Driver:  driverRedis,
		Message: fmt.Sprintf("connected to %s", b.rdb.Options().Addr),
	}
}

func (b *RedisBackend) Close() { _ = b.rdb.Close() }

// isPerKeyError distinguishes a pipeline where individual commands failed
// (reported per key) from a connection-level failure.
func isPerKeyError(err error) bool {
	return !errors.Is(err, redis.ErrClosed) && !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) && !isNetworkError(err)
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
