package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSaveDelete(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if _, err := b.Get(ctx, "scenario:1"); err != ErrNotFound {
		t.Fatalf("Get on empty backend = %v, want ErrNotFound", err)
	}

	if err := b.Save(ctx, "scenario:1", []byte(`{"id":1}`), SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	v, err := b.Get(ctx, "scenario:1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != `{"id":1}` {
		t.Errorf("Get = %s", v)
	}

	ok, err := b.Exists(ctx, "scenario:1")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v, want true", ok, err)
	}

	if err := b.Delete(ctx, "scenario:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := b.Get(ctx, "scenario:1"); err != ErrNotFound {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	// Deleting a missing key is not an error.
	if err := b.Delete(ctx, "scenario:1"); err != nil {
		t.Errorf("Delete missing key = %v", err)
	}
}

func TestMemoryValueIsolation(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	in := []byte(`{"id":1}`)
	if err := b.Save(ctx, "k", in, SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in[0] = 'X'

	out, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(out) != `{"id":1}` {
		t.Errorf("stored value mutated through caller slice: %s", out)
	}

	out[0] = 'Y'
	again, _ := b.Get(ctx, "k")
	if string(again) != `{"id":1}` {
		t.Errorf("stored value mutated through returned slice: %s", again)
	}
}

func TestMemoryTTL(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.SetClock(func() time.Time { return now })

	if err := b.Save(ctx, "k", []byte("v"), SaveOptions{TTL: time.Minute}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, err := b.Get(ctx, "k"); err != nil {
		t.Fatal("entry expired before its TTL")
	}

	now = now.Add(2 * time.Second)
	if _, err := b.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("Get past TTL = %v, want ErrNotFound", err)
	}
	if ok, _ := b.Exists(ctx, "k"); ok {
		t.Error("Exists reports an expired key")
	}
}

func TestMemoryListPrefix(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	keys := []string{
		"idx:program_tasks:p1:0001:t1",
		"idx:program_tasks:p1:0002:t2",
		"idx:program_tasks:p1:0010:t3",
		"idx:program_tasks:p2:0001:t9",
		"scenario:s1",
	}
	for _, k := range keys {
		if err := b.Save(ctx, k, []byte("v"), SaveOptions{}); err != nil {
			t.Fatalf("Save %s: %v", k, err)
		}
	}

	items, err := b.List(ctx, "idx:program_tasks:p1:", ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("List returned %d items, want 3", len(items))
	}
	// Default order is ascending by key, so the zero-padded order segment
	// yields task order.
	want := []string{
		"idx:program_tasks:p1:0001:t1",
		"idx:program_tasks:p1:0002:t2",
		"idx:program_tasks:p1:0010:t3",
	}
	for i, it := range items {
		if it.Key != want[i] {
			t.Errorf("items[%d].Key = %q, want %q", i, it.Key, want[i])
		}
	}
}

func TestMemoryListPagination(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	for _, k := range []string{"u:a", "u:b", "u:c", "u:d"} {
		if err := b.Save(ctx, k, []byte("v"), SaveOptions{}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	items, err := b.List(ctx, "u:", ListOptions{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Key != "u:b" || items[1].Key != "u:c" {
		t.Errorf("paginated List = %v", items)
	}

	items, err = b.List(ctx, "u:", ListOptions{Offset: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("List past the end returned %d items", len(items))
	}
}

func TestMemoryListDescending(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	for _, k := range []string{"u:a", "u:b", "u:c"} {
		if err := b.Save(ctx, k, []byte("v"), SaveOptions{}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	items, err := b.List(ctx, "u:", ListOptions{OrderDirection: OrderDesc})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items[0].Key != "u:c" || items[2].Key != "u:a" {
		t.Errorf("descending List = %v", items)
	}
}

func TestMemoryBulk(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	failed, err := b.BulkSave(ctx, []Item{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
		{Key: "c", Value: []byte("3")},
	})
	if err != nil || len(failed) != 0 {
		t.Fatalf("BulkSave = %v, %v", failed, err)
	}

	failed, err = b.BulkDelete(ctx, []string{"a", "c", "never-existed"})
	if err != nil || len(failed) != 0 {
		t.Fatalf("BulkDelete = %v, %v", failed, err)
	}

	if _, err := b.Get(ctx, "a"); err != ErrNotFound {
		t.Error("key a survived BulkDelete")
	}
	if _, err := b.Get(ctx, "b"); err != nil {
		t.Error("key b deleted by BulkDelete")
	}
}

func TestMemoryHealth(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	if !b.Healthy(ctx) {
		t.Error("memory backend reports unhealthy")
	}
	status := b.HealthStatus(ctx)
	if !status.Healthy || status.Driver != driverMemory {
		t.Errorf("HealthStatus = %+v", status)
	}
}
