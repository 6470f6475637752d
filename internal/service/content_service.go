package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/praxislabs/praxis-backend/internal/cache"
	"github.com/praxislabs/praxis-backend/internal/i18n"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/repository"
)

// Domain errors.
var (
	ErrScenarioNotActive = errors.New("scenario is not active")
)

// ContentService handles scenario lifecycle and keeps the read cache warm.
type ContentService struct {
	scenarios *repository.ScenarioRepository
	rc        *cache.RequestCache
	log       zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(scenarios *repository.ScenarioRepository, rc *cache.RequestCache, log zerolog.Logger) *ContentService {
	return &ContentService{
		scenarios: scenarios,
		rc:        rc,
		log:       log.With().Str("component", "content_service").Logger(),
	}
}

// FindByID returns one scenario localized for the given language.
func (s *ContentService) FindByID(ctx context.Context, id uuid.UUID, lang string) (*model.ScenarioView, error) {
	return s.scenarios.FindByID(ctx, id, lang)
}

// FindAll lists scenarios for management views.
func (s *ContentService) FindAll(ctx context.Context, limit, offset int, lang string) ([]model.ScenarioView, error) {
	return s.scenarios.FindAll(ctx, limit, offset, lang)
}

// FindByMode lists scenarios in one learning mode.
func (s *ContentService) FindByMode(ctx context.Context, mode model.ScenarioMode, lang string) ([]model.ScenarioView, error) {
	return s.scenarios.FindByMode(ctx, mode, lang)
}

// FindActive lists the scenarios learners may start.
func (s *ContentService) FindActive(ctx context.Context, lang string) ([]model.ScenarioView, error) {
	return s.scenarios.FindActive(ctx, lang)
}

// Create persists a new draft scenario.
func (s *ContentService) Create(ctx context.Context, req *model.CreateScenarioRequest) (*model.Scenario, error) {
	sc, err := s.scenarios.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("scenario_id", sc.ID.String()).Str("mode", string(sc.Mode)).Msg("Scenario created")
	return sc, nil
}

// Update patches a scenario and drops the read cache so status flips
// (draft → active) become visible immediately instead of after TTL.
func (s *ContentService) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateScenarioRequest) (*model.Scenario, error) {
	sc, err := s.scenarios.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.rc.Clear()
	return sc, nil
}

// Delete removes a scenario and invalidates cached reads.
func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.scenarios.Delete(ctx, id); err != nil {
		return err
	}
	s.rc.Clear()
	return nil
}

// PrewarmActiveScenarios loads the active-scenario listing into the read
// cache before the server accepts traffic, so the first burst of learners
// does not stampede the backend.
func (s *ContentService) PrewarmActiveScenarios(ctx context.Context) error {
	views, err := s.scenarios.FindActive(ctx, i18n.DefaultLanguage)
	if err != nil {
		return err
	}

	key := cache.BuildKey("GET", "/api/v1/scenarios", map[string]string{"_lang": i18n.DefaultLanguage})
	s.rc.Set(key, views)

	s.log.Info().Int("count", len(views)).Msg("Active scenario cache prewarmed")
	return nil
}
