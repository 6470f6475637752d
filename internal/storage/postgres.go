package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const driverPostgres = "postgres"

// PostgresBackend stores documents in a single storage_objects table
// (key text primary key, doc jsonb, metadata jsonb, expires_at, updated_at).
// Prefix scans map to an indexed LIKE on the key column.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend wraps an existing connection pool. The pool owns
// connection admission; this layer never limits concurrency itself.
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := b.pool.QueryRow(ctx,
		`SELECT doc FROM storage_objects
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`, key,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(driverPostgres, "get", err)
	}
	return doc, nil
}

func (b *PostgresBackend) Save(ctx context.Context, key string, value []byte, opts SaveOptions) error {
	_, err := b.pool.Exec(ctx, upsertSQL, key, value, metadataArg(opts), expiryArg(opts))
	if err != nil {
		return unavailable(driverPostgres, "save", err)
	}
	return nil
}

const upsertSQL = `
	INSERT INTO storage_objects (key, doc, metadata, expires_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (key) DO UPDATE
	SET doc = EXCLUDED.doc, metadata = EXCLUDED.metadata,
	    expires_at = EXCLUDED.expires_at, updated_at = NOW()`

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	_, err := b.pool.Exec(ctx, `DELETE FROM storage_objects WHERE key = $1`, key)
	if err != nil {
		return unavailable(driverPostgres, "delete", err)
	}
	return nil
}

func (b *PostgresBackend) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := b.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM storage_objects
		   WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW()))`, key,
	).Scan(&exists)
	if err != nil {
		return false, unavailable(driverPostgres, "exists", err)
	}
	return exists, nil
}

func (b *PostgresBackend) List(ctx context.Context, prefix string, opts ListOptions) ([]Item, error) {
	orderCol := "key"
	if opts.OrderBy == "updated_at" {
		orderCol = "updated_at"
	}
	dir := "ASC"
	if strings.EqualFold(opts.OrderDirection, OrderDesc) {
		dir = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT key, doc FROM storage_objects
		 WHERE key LIKE $1 || '%%' AND (expires_at IS NULL OR expires_at > NOW())
		 ORDER BY %s %s`, orderCol, dir)

	args := []interface{}{escapeLike(prefix)}
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, opts.Offset)
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable(driverPostgres, "list", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Key, &it.Value); err != nil {
			return nil, unavailable(driverPostgres, "list", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(driverPostgres, "list", err)
	}
	return items, nil
}

// BulkSave sends all upserts in one pgx batch and reports per-key failures.
func (b *PostgresBackend) BulkSave(ctx context.Context, items []Item) ([]KeyError, error) {
	if len(items) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(upsertSQL, it.Key, it.Value, metadataArg(it.Options), expiryArg(it.Options))
	}

	results := b.pool.SendBatch(ctx, batch)
	defer results.Close()

	var failed []KeyError
	for _, it := range items {
		if _, err := results.Exec(); err != nil {
			failed = append(failed, KeyError{Key: it.Key, Err: err})
		}
	}
	return failed, nil
}

func (b *PostgresBackend) BulkDelete(ctx context.Context, keys []string) ([]KeyError, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(`DELETE FROM storage_objects WHERE key = $1`, k)
	}

	results := b.pool.SendBatch(ctx, batch)
	defer results.Close()

	var failed []KeyError
	for _, k := range keys {
		if _, err := results.Exec(); err != nil {
			failed = append(failed, KeyError{Key: k, Err: err})
		}
	}
	return failed, nil
}

func (b *PostgresBackend) Healthy(ctx context.Context) bool {
	return b.pool.Ping(ctx) == nil
}

func (b *PostgresBackend) HealthStatus(ctx context.Context) HealthStatus {
	if err := b.pool.Ping(ctx); err != nil {
		return HealthStatus{Healthy: false, Driver: driverPostgres, Error: err.Error()}
	}
	stat := b.pool.Stat()
	return HealthStatus{
		Healthy: true,
		Driver:  driverPostgres,
		Message: fmt.Sprintf("%d/%d connections in use", stat.AcquiredConns(), stat.MaxConns()),
	}
}

func (b *PostgresBackend) Close() { b.pool.Close() }

func expiryArg(opts SaveOptions) *time.Time {
	if opts.TTL <= 0 {
		return nil
	}
	t := time.Now().Add(opts.TTL)
	return &t
}

func metadataArg(opts SaveOptions) interface{} {
	if len(opts.Metadata) == 0 {
		return nil
	}
	return opts.Metadata
}

// escapeLike neutralizes LIKE wildcards inside a key prefix so "program:"
// matches literally.
func escapeLike(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
