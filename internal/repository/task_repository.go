package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// ErrTaskFrozen is returned when a write touches a completed task.
// Response and interactions are append-only before completion and frozen
// after.
var ErrTaskFrozen = errors.New("task is completed and frozen")

// TaskRepository handles task persistence within programs.
type TaskRepository struct {
	backend storage.Backend
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend storage.Backend) *TaskRepository {
	return &TaskRepository{backend: backend}
}

// FindByID retrieves the raw task record.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	t := &model.Task{}
	if err := getDoc(ctx, r.backend, Key.TaskKey(id), t); err != nil {
		return nil, err
	}
	return t, nil
}

// FindByProgram lists a program's tasks in template order, localized.
func (r *TaskRepository) FindByProgram(ctx context.Context, programID uuid.UUID, lang string) ([]model.TaskView, error) {
	// The index key embeds the zero-padded order, so key-ascending scan
	// order is task order.
	refs, err := r.backend.List(ctx, Key.ProgramTaskPrefix(programID), storage.ListOptions{})
	if err != nil {
		return nil, err
	}

	views := make([]model.TaskView, 0, len(refs))
	for _, ref := range refs {
		var idx indexRef
		if err := decodeItem(ref, &idx); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idx.ID)
		if err != nil {
			continue
		}
		t, err := r.FindByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, t.Localize(lang))
	}
	return views, nil
}

// CreateBatch instantiates all tasks for a new program from scenario
// templates using the backend's bulk write. Returns the new task ids in
// template order.
func (r *TaskRepository) CreateBatch(ctx context.Context, programID uuid.UUID, templates []model.TaskTemplate) ([]uuid.UUID, error) {
	now := time.Now().UTC()
	items := make([]storage.Item, 0, len(templates)*2)
	ids := make([]uuid.UUID, len(templates))

	for i, tpl := range templates {
		t := model.Task{
			ID:           uuid.New(),
			ProgramID:    programID,
			Order:        i,
			Title:        tpl.Title,
			Instructions: tpl.Instructions,
			Status:       model.TaskStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		ids[i] = t.ID

		raw, err := json.Marshal(&t)
		if err != nil {
			return nil, err
		}
		items = append(items,
			storage.Item{Key: Key.TaskKey(t.ID), Value: raw},
			storage.Item{Key: Key.ProgramTaskIndexKey(programID, i, t.ID), Value: marshalRef(t.ID)},
		)
	}

	failed, err := r.backend.BulkSave(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, failed[0].Err
	}
	return ids, nil
}

// Activate moves a pending task to ACTIVE.
func (r *TaskRepository) Activate(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return r.mutate(ctx, id, func(t *model.Task) error {
		t.Status = model.TaskStatusActive
		return nil
	})
}

// SetResponse replaces the task's free-form response payload.
func (r *TaskRepository) SetResponse(ctx context.Context, id uuid.UUID, response json.RawMessage) (*model.Task, error) {
	return r.mutate(ctx, id, func(t *model.Task) error {
		t.Response = response
		if t.Status == model.TaskStatusPending {
			t.Status = model.TaskStatusActive
		}
		return nil
	})
}

// AppendInteraction adds one log entry to an open task.
func (r *TaskRepository) AppendInteraction(ctx context.Context, id uuid.UUID, kind string, content json.RawMessage) (*model.Task, error) {
	return r.mutate(ctx, id, func(t *model.Task) error {
		t.Interactions = append(t.Interactions, model.Interaction{
			Type:      kind,
			Content:   content,
			Timestamp: time.Now().UTC(),
		})
		return nil
	})
}

// Complete finishes a task. After this call the response and interaction
// log are immutable.
func (r *TaskRepository) Complete(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return r.mutate(ctx, id, func(t *model.Task) error {
		now := time.Now().UTC()
		t.Status = model.TaskStatusCompleted
		t.CompletedAt = &now
		return nil
	})
}

// mutate loads, patches and saves a task, rejecting writes to completed
// tasks before the patch runs.
func (r *TaskRepository) mutate(ctx context.Context, id uuid.UUID, patch func(*model.Task) error) (*model.Task, error) {
	t, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == model.TaskStatusCompleted {
		return nil, ErrTaskFrozen
	}

	if err := patch(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	if err := saveDoc(ctx, r.backend, Key.TaskKey(id), t); err != nil {
		return nil, err
	}
	return t, nil
}
