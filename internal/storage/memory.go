package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const driverMemory = "memory"

type memoryEntry struct {
	value     []byte
	metadata  map[string]string
	updatedAt time.Time
	expiresAt time.Time // zero means no expiry
}

// MemoryBackend is an in-process Backend used as the test double and the
// zero-config default. Expired entries are evicted lazily on read and
// swept during List.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook for expiry behavior.
func (b *MemoryBackend) SetClock(now func() time.Time) {
	b.mu.Lock()
	b.now = now
	b.mu.Unlock()
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	e, ok := b.entries[key]
	now := b.now()
	b.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(now) {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return nil, ErrNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (b *MemoryBackend) Save(_ context.Context, key string, value []byte, opts SaveOptions) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	b.mu.Lock()
	defer b.mu.Unlock()

	e := memoryEntry{
		value:     stored,
		updatedAt: b.now(),
	}
	if opts.TTL > 0 {
		e.expiresAt = b.now().Add(opts.TTL)
	}
	if len(opts.Metadata) > 0 {
		e.metadata = make(map[string]string, len(opts.Metadata))
		for k, v := range opts.Metadata {
			e.metadata[k] = v
		}
	}
	b.entries[key] = e
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *MemoryBackend) List(_ context.Context, prefix string, opts ListOptions) ([]Item, error) {
	b.mu.Lock()
	now := b.now()

	type kv struct {
		key string
		e   memoryEntry
	}
	var matched []kv
	for k, e := range b.entries {
		if e.expired(now) {
			delete(b.entries, k)
			continue
		}
		if strings.HasPrefix(k, prefix) {
			matched = append(matched, kv{key: k, e: e})
		}
	}
	b.mu.Unlock()

	desc := strings.EqualFold(opts.OrderDirection, OrderDesc)
	if opts.OrderBy == "updated_at" {
		sort.Slice(matched, func(i, j int) bool {
			if desc {
				return matched[i].e.updatedAt.After(matched[j].e.updatedAt)
			}
			return matched[i].e.updatedAt.Before(matched[j].e.updatedAt)
		})
	} else {
		sort.Slice(matched, func(i, j int) bool {
			if desc {
				return matched[i].key > matched[j].key
			}
			return matched[i].key < matched[j].key
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}

	items := make([]Item, len(matched))
	for i, m := range matched {
		val := make([]byte, len(m.e.value))
		copy(val, m.e.value)
		items[i] = Item{Key: m.key, Value: val}
	}
	return items, nil
}

func (b *MemoryBackend) BulkSave(ctx context.Context, items []Item) ([]KeyError, error) {
	for _, it := range items {
		// Save on the memory backend cannot fail per key.
		if err := b.Save(ctx, it.Key, it.Value, it.Options); err != nil {
			return []KeyError{{Key: it.Key, Err: err}}, nil
		}
	}
	return nil, nil
}

func (b *MemoryBackend) BulkDelete(_ context.Context, keys []string) ([]KeyError, error) {
	b.mu.Lock()
	for _, k := range keys {
		delete(b.entries, k)
	}
	b.mu.Unlock()
	return nil, nil
}

func (b *MemoryBackend) Healthy(context.Context) bool { return true }

func (b *MemoryBackend) HealthStatus(context.Context) HealthStatus {
	b.mu.RLock()
	n := len(b.entries)
	b.mu.RUnlock()
	return HealthStatus{
		Healthy: true,
		Driver:  driverMemory,
		Message: fmt.Sprintf("in-memory store, %d keys", n),
	}
}

func (b *MemoryBackend) Close() {
	b.mu.Lock()
	b.entries = make(map[string]memoryEntry)
	b.mu.Unlock()
}
