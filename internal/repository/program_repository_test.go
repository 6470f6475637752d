package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

func TestProgramCreateAndFind(t *testing.T) {
	backend := storage.NewMemoryBackend()
	r := NewProgramRepository(backend)
	ctx := context.Background()

	scenarioID, userID := uuid.New(), uuid.New()
	p, err := r.Create(ctx, scenarioID, userID, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != model.ProgramStatusNotStarted {
		t.Errorf("status = %q, want not_started", p.Status)
	}

	got, err := r.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ScenarioID != scenarioID || got.UserID != userID {
		t.Errorf("FindByID = %+v", got)
	}
}

func TestProgramFindByUser(t *testing.T) {
	backend := storage.NewMemoryBackend()
	r := NewProgramRepository(backend)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		if _, err := r.Create(ctx, uuid.New(), alice, nil); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := r.Create(ctx, uuid.New(), bob, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	programs, err := r.FindByUser(ctx, alice)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(programs) != 3 {
		t.Fatalf("FindByUser(alice) returned %d, want 3", len(programs))
	}
	for _, p := range programs {
		if p.UserID != alice {
			t.Errorf("FindByUser returned program of user %s", p.UserID)
		}
	}
}

func TestProgramFindByUserSkipsStaleIndex(t *testing.T) {
	backend := storage.NewMemoryBackend()
	r := NewProgramRepository(backend)
	ctx := context.Background()

	userID := uuid.New()
	p, err := r.Create(ctx, uuid.New(), userID, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Remove the record but leave the index entry behind.
	if err := backend.Delete(ctx, Key.ProgramKey(p.ID)); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	programs, err := r.FindByUser(ctx, userID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(programs) != 0 {
		t.Errorf("FindByUser returned %d programs via stale index, want 0", len(programs))
	}
}

func TestProgramUpdateStatus(t *testing.T) {
	r := NewProgramRepository(storage.NewMemoryBackend())
	ctx := context.Background()

	p, err := r.Create(ctx, uuid.New(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := r.UpdateStatus(ctx, p.ID, model.ProgramStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.ProgramStatusInProgress || updated.CompletedAt != nil {
		t.Errorf("in-progress program = %+v", updated)
	}

	updated, err = r.UpdateStatus(ctx, p.ID, model.ProgramStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.ProgramStatusCompleted || updated.CompletedAt == nil {
		t.Errorf("completed program = %+v", updated)
	}
}

func TestProgramDeleteRemovesTasksAndIndexes(t *testing.T) {
	backend := storage.NewMemoryBackend()
	programs := NewProgramRepository(backend)
	tasks := NewTaskRepository(backend)
	ctx := context.Background()

	userID := uuid.New()
	p, err := programs.Create(ctx, uuid.New(), userID, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	taskIDs := seedTasks(t, tasks, p.ID, 2)
	if err := programs.SetTaskIDs(ctx, p.ID, taskIDs); err != nil {
		t.Fatalf("SetTaskIDs: %v", err)
	}

	if err := programs.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := programs.FindByID(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("FindByID after Delete = %v, want ErrNotFound", err)
	}
	for _, id := range taskIDs {
		if _, err := tasks.FindByID(ctx, id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("task %s survived program Delete", id)
		}
	}
	got, err := programs.FindByUser(ctx, userID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindByUser returned %d programs after Delete", len(got))
	}
}
