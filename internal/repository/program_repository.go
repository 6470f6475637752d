package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// ProgramRepository handles program persistence. Every program is indexed
// under its owner so FindByUser is a prefix scan, not a full walk.
type ProgramRepository struct {
	backend storage.Backend
}

// NewProgramRepository creates a new ProgramRepository.
func NewProgramRepository(backend storage.Backend) *ProgramRepository {
	return &ProgramRepository{backend: backend}
}

// FindByID retrieves a program by id.
func (r *ProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	p := &model.Program{}
	if err := getDoc(ctx, r.backend, Key.ProgramKey(id), p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindByUser lists all programs owned by one user.
func (r *ProgramRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Program, error) {
	refs, err := r.backend.List(ctx, Key.UserProgramPrefix(userID), storage.ListOptions{})
	if err != nil {
		return nil, err
	}

	programs := make([]model.Program, 0, len(refs))
	for _, ref := range refs {
		var idx indexRef
		if err := decodeItem(ref, &idx); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idx.ID)
		if err != nil {
			continue // skip corrupt index entries
		}
		p, err := r.FindByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			// Stale index entry; the primary document is gone.
			continue
		}
		if err != nil {
			return nil, err
		}
		programs = append(programs, *p)
	}
	return programs, nil
}

// Create persists a new program plus its owner index entry.
func (r *ProgramRepository) Create(ctx context.Context, scenarioID, userID uuid.UUID, taskIDs []uuid.UUID) (*model.Program, error) {
	now := time.Now().UTC()
	p := &model.Program{
		ID:         uuid.New(),
		ScenarioID: scenarioID,
		UserID:     userID,
		Status:     model.ProgramStatusNotStarted,
		TaskIDs:    taskIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := saveDoc(ctx, r.backend, Key.ProgramKey(p.ID), p); err != nil {
		return nil, err
	}
	idxKey := Key.UserProgramIndexKey(userID, p.ID)
	if err := r.backend.Save(ctx, idxKey, marshalRef(p.ID), storage.SaveOptions{}); err != nil {
		return nil, err
	}
	return p, nil
}

// SetTaskIDs attaches the instantiated task ids to a freshly created
// program.
func (r *ProgramRepository) SetTaskIDs(ctx context.Context, id uuid.UUID, taskIDs []uuid.UUID) error {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.TaskIDs = taskIDs
	p.UpdatedAt = time.Now().UTC()
	return saveDoc(ctx, r.backend, Key.ProgramKey(id), p)
}

// UpdateStatus transitions the program's completion state and bumps
// UpdatedAt. A completed program also records CompletedAt.
func (r *ProgramRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProgramStatus) (*model.Program, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	if status == model.ProgramStatusCompleted && p.CompletedAt == nil {
		t := p.UpdatedAt
		p.CompletedAt = &t
	}

	if err := saveDoc(ctx, r.backend, Key.ProgramKey(id), p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a program, its tasks and the owner index in one
// best-effort bulk delete.
func (r *ProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	keys := []string{
		Key.ProgramKey(id),
		Key.UserProgramIndexKey(p.UserID, id),
	}
	for i, taskID := range p.TaskIDs {
		keys = append(keys, Key.TaskKey(taskID))
		keys = append(keys, Key.ProgramTaskIndexKey(id, i, taskID))
	}

	failed, err := r.backend.BulkDelete(ctx, keys)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return failed[0].Err
	}
	return nil
}
