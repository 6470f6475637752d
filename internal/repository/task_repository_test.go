package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

func seedTasks(t *testing.T, r *TaskRepository, programID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	templates := make([]model.TaskTemplate, n)
	for i := range templates {
		templates[i] = model.TaskTemplate{
			Title: model.Multilingual{"en": "Task"},
			Order: i + 1,
		}
	}
	ids, err := r.CreateBatch(context.Background(), programID, templates)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return ids
}

func TestTaskCreateBatch(t *testing.T) {
	r := NewTaskRepository(storage.NewMemoryBackend())
	programID := uuid.New()

	ids := seedTasks(t, r, programID, 3)
	if len(ids) != 3 {
		t.Fatalf("CreateBatch returned %d ids, want 3", len(ids))
	}

	for i, id := range ids {
		task, err := r.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if task.ProgramID != programID {
			t.Errorf("task %d program = %s, want %s", i, task.ProgramID, programID)
		}
		if task.Order != i {
			t.Errorf("task %d order = %d", i, task.Order)
		}
		if task.Status != model.TaskStatusPending {
			t.Errorf("task %d status = %q, want pending", i, task.Status)
		}
	}
}

func TestTaskFindByProgramOrder(t *testing.T) {
	r := NewTaskRepository(storage.NewMemoryBackend())
	programID := uuid.New()

	// Enough tasks that lexical ordering of unpadded numbers would differ
	// from numeric order.
	ids := seedTasks(t, r, programID, 12)

	views, err := r.FindByProgram(context.Background(), programID, "en")
	if err != nil {
		t.Fatalf("FindByProgram: %v", err)
	}
	if len(views) != 12 {
		t.Fatalf("FindByProgram returned %d tasks, want 12", len(views))
	}
	for i, v := range views {
		if v.ID != ids[i] {
			t.Fatalf("tasks out of order at %d: got %s, want %s", i, v.ID, ids[i])
		}
	}
}

func TestTaskFindByProgramScopesToProgram(t *testing.T) {
	r := NewTaskRepository(storage.NewMemoryBackend())
	p1, p2 := uuid.New(), uuid.New()
	seedTasks(t, r, p1, 2)
	seedTasks(t, r, p2, 3)

	views, err := r.FindByProgram(context.Background(), p1, "en")
	if err != nil {
		t.Fatalf("FindByProgram: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("FindByProgram(p1) returned %d tasks, want 2", len(views))
	}
}

func TestTaskLifecycle(t *testing.T) {
	r := NewTaskRepository(storage.NewMemoryBackend())
	ids := seedTasks(t, r, uuid.New(), 1)
	id := ids[0]
	ctx := context.Background()

	// A response submission moves a pending task to active.
	task, err := r.SetResponse(ctx, id, json.RawMessage(`{"answer":42}`))
	if err != nil {
		t.Fatalf("SetResponse: %v", err)
	}
	if task.Status != model.TaskStatusActive {
		t.Errorf("status after response = %q, want active", task.Status)
	}

	task, err = r.AppendInteraction(ctx, id, "chat", json.RawMessage(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("AppendInteraction: %v", err)
	}
	if len(task.Interactions) != 1 || task.Interactions[0].Type != "chat" {
		t.Errorf("interactions = %+v", task.Interactions)
	}

	task, err = r.Complete(ctx, id)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if task.Status != model.TaskStatusCompleted || task.CompletedAt == nil {
		t.Errorf("completed task = %+v", task)
	}
}

func TestTaskFrozenAfterComplete(t *testing.T) {
	r := NewTaskRepository(storage.NewMemoryBackend())
	ids := seedTasks(t, r, uuid.New(), 1)
	id := ids[0]
	ctx := context.Background()

	if _, err := r.Complete(ctx, id); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := r.SetResponse(ctx, id, json.RawMessage(`{}`)); !errors.Is(err, ErrTaskFrozen) {
		t.Errorf("SetResponse on completed task = %v, want ErrTaskFrozen", err)
	}
	if _, err := r.AppendInteraction(ctx, id, "chat", json.RawMessage(`{}`)); !errors.Is(err, ErrTaskFrozen) {
		t.Errorf("AppendInteraction on completed task = %v, want ErrTaskFrozen", err)
	}
	if _, err := r.Complete(ctx, id); !errors.Is(err, ErrTaskFrozen) {
		t.Errorf("double Complete = %v, want ErrTaskFrozen", err)
	}
}
