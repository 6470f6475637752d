package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/repository"
)

// Domain errors.
var (
	ErrNotProgramOwner = errors.New("caller does not own this program")
	ErrNotProgramTask  = errors.New("task does not belong to this program")
)

// LearningService drives a learner's run through a scenario: program
// instantiation, task progression and completion roll-up.
type LearningService struct {
	scenarios *repository.ScenarioRepository
	programs  *repository.ProgramRepository
	tasks     *repository.TaskRepository
	log       zerolog.Logger
}

// NewLearningService creates a new LearningService.
func NewLearningService(
	scenarios *repository.ScenarioRepository,
	programs *repository.ProgramRepository,
	tasks *repository.TaskRepository,
	log zerolog.Logger,
) *LearningService {
	return &LearningService{
		scenarios: scenarios,
		programs:  programs,
		tasks:     tasks,
		log:       log.With().Str("component", "learning_service").Logger(),
	}
}

// StartProgram instantiates an active scenario into a program plus its
// tasks for the given user. Draft and archived scenarios cannot be
// started.
func (s *LearningService) StartProgram(ctx context.Context, scenarioID, userID uuid.UUID) (*model.Program, error) {
	sc, err := s.scenarios.Load(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if sc.Status != model.ScenarioStatusActive {
		return nil, ErrScenarioNotActive
	}

	// Create the program first so the tasks have a parent id, then attach
	// the instantiated task ids.
	p, err := s.programs.Create(ctx, scenarioID, userID, nil)
	if err != nil {
		return nil, err
	}

	taskIDs, err := s.tasks.CreateBatch(ctx, p.ID, sc.TaskTemplates)
	if err != nil {
		s.discardProgram(ctx, p.ID)
		return nil, err
	}
	p.TaskIDs = taskIDs
	if err := s.programs.SetTaskIDs(ctx, p.ID, taskIDs); err != nil {
		s.discardProgram(ctx, p.ID)
		return nil, err
	}

	s.log.Info().
		Str("program_id", p.ID.String()).
		Str("scenario_id", scenarioID.String()).
		Int("tasks", len(taskIDs)).
		Msg("Program started")
	return p, nil
}

// GetProgram returns a program after checking ownership.
func (s *LearningService) GetProgram(ctx context.Context, programID, userID uuid.UUID) (*model.Program, error) {
	p, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotProgramOwner
	}
	return p, nil
}

// ListPrograms returns all programs owned by the user.
func (s *LearningService) ListPrograms(ctx context.Context, userID uuid.UUID) ([]model.Program, error) {
	return s.programs.FindByUser(ctx, userID)
}

// ListTasks returns a program's tasks localized for the given language.
func (s *LearningService) ListTasks(ctx context.Context, programID, userID uuid.UUID, lang string) ([]model.TaskView, error) {
	if _, err := s.GetProgram(ctx, programID, userID); err != nil {
		return nil, err
	}
	return s.tasks.FindByProgram(ctx, programID, lang)
}

// SubmitResponse records a learner's answer on a task and marks the
// program in progress.
func (s *LearningService) SubmitResponse(ctx context.Context, programID, taskID, userID uuid.UUID, resp json.RawMessage) (*model.Task, error) {
	if err := s.checkTask(ctx, programID, taskID, userID); err != nil {
		return nil, err
	}

	t, err := s.tasks.SetResponse(ctx, taskID, resp)
	if err != nil {
		return nil, err
	}

	if _, err := s.programs.UpdateStatus(ctx, programID, model.ProgramStatusInProgress); err != nil {
		return nil, err
	}
	return t, nil
}

// AppendInteraction adds one interaction log entry to an open task.
func (s *LearningService) AppendInteraction(ctx context.Context, programID, taskID, userID uuid.UUID, kind string, content json.RawMessage) (*model.Task, error) {
	if err := s.checkTask(ctx, programID, taskID, userID); err != nil {
		return nil, err
	}
	return s.tasks.AppendInteraction(ctx, taskID, kind, content)
}

// CompleteTask freezes a task and, when it was the last open one, rolls
// the completion up to the program.
func (s *LearningService) CompleteTask(ctx context.Context, programID, taskID, userID uuid.UUID) (*model.Task, error) {
	if err := s.checkTask(ctx, programID, taskID, userID); err != nil {
		return nil, err
	}

	t, err := s.tasks.Complete(ctx, taskID)
	if err != nil {
		return nil, err
	}

	p, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	allDone := true
	for _, id := range p.TaskIDs {
		other, err := s.tasks.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if other.Status != model.TaskStatusCompleted {
			allDone = false
			break
		}
	}

	status := model.ProgramStatusInProgress
	if allDone {
		status = model.ProgramStatusCompleted
	}
	if _, err := s.programs.UpdateStatus(ctx, programID, status); err != nil {
		return nil, err
	}

	if allDone {
		s.log.Info().Str("program_id", programID.String()).Msg("Program completed")
	}
	return t, nil
}

// discardProgram removes a half-instantiated program. Best effort; the
// original error is what the caller reports.
func (s *LearningService) discardProgram(ctx context.Context, programID uuid.UUID) {
	if err := s.programs.Delete(ctx, programID); err != nil {
		s.log.Warn().Err(err).Str("program_id", programID.String()).Msg("Failed to discard program")
	}
}

func (s *LearningService) checkTask(ctx context.Context, programID, taskID, userID uuid.UUID) error {
	p, err := s.GetProgram(ctx, programID, userID)
	if err != nil {
		return err
	}
	for _, id := range p.TaskIDs {
		if id == taskID {
			return nil
		}
	}
	return ErrNotProgramTask
}
