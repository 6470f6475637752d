package storage

import (
	"context"
	"time"
)

// Order directions for List.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SaveOptions carries optional per-write settings.
type SaveOptions struct {
	// TTL expires the key after the given duration. Zero means no expiry.
	TTL time.Duration
	// Metadata is stored alongside the document. Not all backends index it.
	Metadata map[string]string
}

// ListOptions controls prefix scans.
type ListOptions struct {
	Limit  int
	Offset int
	// OrderBy is "key" or "updated_at". Backends that cannot order by
	// update time (Redis) fall back to key order.
	OrderBy        string
	OrderDirection string
}

// Item is a key/document pair used by List results and bulk writes.
type Item struct {
	Key     string
	Value   []byte
	Options SaveOptions
}

// KeyError reports a single failed key inside a bulk operation.
type KeyError struct {
	Key string
	Err error
}

// HealthStatus describes the current reachability of a backend.
type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Driver  string `json:"driver"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Backend is the uniform persistence contract the repositories are built on.
// Documents are JSON blobs; typed encoding and decoding live in the
// repository layer. Implementations must be safe for concurrent use.
//
// Get returns ErrNotFound for a missing or expired key. Every other failure
// is wrapped in *UnavailableError so callers can tell a miss from an
// unreachable backend.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte, opts SaveOptions) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// List returns items whose key starts with prefix, ordered per opts
	// (key ascending by default).
	List(ctx context.Context, prefix string, opts ListOptions) ([]Item, error)

	// BulkSave and BulkDelete are best-effort: one bad item does not abort
	// the batch. The returned slice names the keys that failed; the error
	// is non-nil only when the backend itself is unreachable.
	BulkSave(ctx context.Context, items []Item) ([]KeyError, error)
	BulkDelete(ctx context.Context, keys []string) ([]KeyError, error)

	Healthy(ctx context.Context) bool
	HealthStatus(ctx context.Context) HealthStatus

	Close()
}
