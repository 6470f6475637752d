package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// ErrModeImmutable is returned when an update tries to change a scenario's
// mode after creation.
var ErrModeImmutable = errors.New("scenario mode is immutable after creation")

// ScenarioRepository handles scenario persistence over the storage backend.
// Read methods take the caller's language and return localized views.
type ScenarioRepository struct {
	backend storage.Backend
}

// NewScenarioRepository creates a new ScenarioRepository.
func NewScenarioRepository(backend storage.Backend) *ScenarioRepository {
	return &ScenarioRepository{backend: backend}
}

// Load fetches the raw, unlocalized scenario. Mutation paths and program
// instantiation need the full multilingual record.
func (r *ScenarioRepository) Load(ctx context.Context, id uuid.UUID) (*model.Scenario, error) {
	s := &model.Scenario{}
	if err := getDoc(ctx, r.backend, Key.ScenarioKey(id), s); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID retrieves a scenario localized for the given language.
func (r *ScenarioRepository) FindByID(ctx context.Context, id uuid.UUID, lang string) (*model.ScenarioView, error) {
	s, err := r.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.Localize(lang)
	return &v, nil
}

// FindAll lists scenarios with pagination, localized for the given language.
func (r *ScenarioRepository) FindAll(ctx context.Context, limit, offset int, lang string) ([]model.ScenarioView, error) {
	return r.scan(ctx, clampList(limit, offset), lang, nil)
}

// FindByMode lists scenarios in one learning mode.
func (r *ScenarioRepository) FindByMode(ctx context.Context, mode model.ScenarioMode, lang string) ([]model.ScenarioView, error) {
	return r.scan(ctx, storage.ListOptions{}, lang, func(s *model.Scenario) bool {
		return s.Mode == mode
	})
}

// FindActive lists the scenarios visible to learners.
func (r *ScenarioRepository) FindActive(ctx context.Context, lang string) ([]model.ScenarioView, error) {
	return r.scan(ctx, storage.ListOptions{}, lang, func(s *model.Scenario) bool {
		return s.Status == model.ScenarioStatusActive
	})
}

// Create persists a new scenario as DRAFT, assigning id and timestamps.
func (r *ScenarioRepository) Create(ctx context.Context, req *model.CreateScenarioRequest) (*model.Scenario, error) {
	now := time.Now().UTC()
	s := &model.Scenario{
		ID:            uuid.New(),
		Mode:          req.Mode,
		Status:        model.ScenarioStatusDraft,
		Title:         req.Title,
		Description:   req.Description,
		TaskTemplates: req.TaskTemplates,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := saveDoc(ctx, r.backend, Key.ScenarioKey(s.ID), s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update merges the patch into an existing scenario and bumps UpdatedAt.
// Returns storage.ErrNotFound if the scenario is absent.
func (r *ScenarioRepository) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateScenarioRequest) (*model.Scenario, error) {
	s, err := r.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Mode != nil && *patch.Mode != s.Mode {
		return nil, ErrModeImmutable
	}
	if patch.Title != nil {
		s.Title = patch.Title
	}
	if patch.Description != nil {
		s.Description = patch.Description
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.TaskTemplates != nil {
		s.TaskTemplates = patch.TaskTemplates
	}
	s.UpdatedAt = time.Now().UTC()

	if err := saveDoc(ctx, r.backend, Key.ScenarioKey(id), s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a scenario document.
func (r *ScenarioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.backend.Delete(ctx, Key.ScenarioKey(id))
}

func (r *ScenarioRepository) scan(ctx context.Context, opts storage.ListOptions, lang string, keep func(*model.Scenario) bool) ([]model.ScenarioView, error) {
	items, err := r.backend.List(ctx, Key.ScenarioPrefix(), opts)
	if err != nil {
		return nil, err
	}

	views := make([]model.ScenarioView, 0, len(items))
	for _, it := range items {
		var s model.Scenario
		if err := decodeItem(it, &s); err != nil {
			return nil, err
		}
		if keep != nil && !keep(&s) {
			continue
		}
		views = append(views, s.Localize(lang))
	}
	return views, nil
}
