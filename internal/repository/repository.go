package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/praxislabs/praxis-backend/internal/storage"
)

// getDoc fetches and decodes one JSON document. A miss surfaces as
// storage.ErrNotFound; backend failures pass through as
// *storage.UnavailableError.
func getDoc(ctx context.Context, b storage.Backend, key string, dst interface{}) error {
	raw, err := b.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// saveDoc encodes and persists one JSON document.
func saveDoc(ctx context.Context, b storage.Backend, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Save(ctx, key, raw, storage.SaveOptions{})
}

// decodeItem unmarshals one List result.
func decodeItem(it storage.Item, dst interface{}) error {
	if err := json.Unmarshal(it.Value, dst); err != nil {
		return fmt.Errorf("decode %s: %w", it.Key, err)
	}
	return nil
}

// indexRef is the tiny document stored under index keys: just enough to
// reach the primary document.
type indexRef struct {
	ID string `json:"id"`
}

func marshalRef(id fmt.Stringer) []byte {
	raw, _ := json.Marshal(indexRef{ID: id.String()})
	return raw
}

// clampList normalizes user-supplied limit/offset into storage list options.
func clampList(limit, offset int) storage.ListOptions {
	if limit < 0 {
		limit = 0
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return storage.ListOptions{Limit: limit, Offset: offset}
}
