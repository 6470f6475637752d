package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// EvaluationRepository handles evaluation persistence. Evaluations are
// write-once: a re-evaluation is a new record, so there is no Update.
type EvaluationRepository struct {
	backend storage.Backend
}

// NewEvaluationRepository creates a new EvaluationRepository.
func NewEvaluationRepository(backend storage.Backend) *EvaluationRepository {
	return &EvaluationRepository{backend: backend}
}

// FindByID retrieves an evaluation by id.
func (r *EvaluationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Evaluation, error) {
	e := &model.Evaluation{}
	if err := getDoc(ctx, r.backend, Key.EvaluationKey(id), e); err != nil {
		return nil, err
	}
	return e, nil
}

// FindBySubject lists every evaluation recorded against one task or
// program, newest first.
func (r *EvaluationRepository) FindBySubject(ctx context.Context, subjectType model.SubjectType, subjectID uuid.UUID) ([]model.Evaluation, error) {
	prefix := Key.SubjectEvaluationPrefix(string(subjectType), subjectID)
	return r.collect(ctx, prefix)
}

// FindByUser lists every evaluation of one learner's work, newest first.
func (r *EvaluationRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Evaluation, error) {
	return r.collect(ctx, Key.UserEvaluationPrefix(userID))
}

// Create records a new evaluation together with its subject and user
// index entries.
func (r *EvaluationRepository) Create(ctx context.Context, userID, evaluatorID uuid.UUID, req *model.CreateEvaluationRequest) (*model.Evaluation, error) {
	e := &model.Evaluation{
		ID:          uuid.New(),
		SubjectID:   req.SubjectID,
		SubjectType: req.SubjectType,
		UserID:      userID,
		EvaluatorID: evaluatorID,
		Scores:      req.Scores,
		Feedback:    req.Feedback,
		CreatedAt:   time.Now().UTC(),
	}

	if err := saveDoc(ctx, r.backend, Key.EvaluationKey(e.ID), e); err != nil {
		return nil, err
	}

	items := []storage.Item{
		{Key: Key.SubjectEvaluationIndexKey(string(e.SubjectType), e.SubjectID, e.ID), Value: marshalRef(e.ID)},
		{Key: Key.UserEvaluationIndexKey(userID, e.ID), Value: marshalRef(e.ID)},
	}
	failed, err := r.backend.BulkSave(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, failed[0].Err
	}
	return e, nil
}

func (r *EvaluationRepository) collect(ctx context.Context, prefix string) ([]model.Evaluation, error) {
	refs, err := r.backend.List(ctx, prefix, storage.ListOptions{})
	if err != nil {
		return nil, err
	}

	evals := make([]model.Evaluation, 0, len(refs))
	for _, ref := range refs {
		var idx indexRef
		if err := decodeItem(ref, &idx); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idx.ID)
		if err != nil {
			continue
		}
		e, err := r.FindByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		evals = append(evals, *e)
	}

	sort.Slice(evals, func(i, j int) bool {
		return evals[i].CreatedAt.After(evals[j].CreatedAt)
	})
	return evals, nil
}
