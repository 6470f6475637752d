package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/repository"
)

// ErrUnknownSubject is returned when an evaluation references a task or
// program that does not exist.
var ErrUnknownSubject = errors.New("evaluation subject not found")

// EvaluationService records and lists scoring results.
type EvaluationService struct {
	evaluations *repository.EvaluationRepository
	programs    *repository.ProgramRepository
	tasks       *repository.TaskRepository
	log         zerolog.Logger
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(
	evaluations *repository.EvaluationRepository,
	programs *repository.ProgramRepository,
	tasks *repository.TaskRepository,
	log zerolog.Logger,
) *EvaluationService {
	return &EvaluationService{
		evaluations: evaluations,
		programs:    programs,
		tasks:       tasks,
		log:         log.With().Str("component", "evaluation_service").Logger(),
	}
}

// Record validates the subject and stores a new evaluation. The evaluated
// user is derived from the subject, never from the request.
func (s *EvaluationService) Record(ctx context.Context, evaluatorID uuid.UUID, req *model.CreateEvaluationRequest) (*model.Evaluation, error) {
	userID, err := s.subjectOwner(ctx, req.SubjectType, req.SubjectID)
	if err != nil {
		return nil, err
	}

	e, err := s.evaluations.Create(ctx, userID, evaluatorID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("evaluation_id", e.ID.String()).
		Str("subject_type", string(e.SubjectType)).
		Str("subject_id", e.SubjectID.String()).
		Msg("Evaluation recorded")
	return e, nil
}

// FindBySubject lists the evaluation history of one task or program.
func (s *EvaluationService) FindBySubject(ctx context.Context, subjectType model.SubjectType, subjectID uuid.UUID) ([]model.Evaluation, error) {
	return s.evaluations.FindBySubject(ctx, subjectType, subjectID)
}

// FindByUser lists every evaluation of one learner's work.
func (s *EvaluationService) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Evaluation, error) {
	return s.evaluations.FindByUser(ctx, userID)
}

func (s *EvaluationService) subjectOwner(ctx context.Context, subjectType model.SubjectType, subjectID uuid.UUID) (uuid.UUID, error) {
	switch subjectType {
	case model.SubjectProgram:
		p, err := s.programs.FindByID(ctx, subjectID)
		if err != nil {
			return uuid.Nil, err
		}
		return p.UserID, nil
	case model.SubjectTask:
		t, err := s.tasks.FindByID(ctx, subjectID)
		if err != nil {
			return uuid.Nil, err
		}
		p, err := s.programs.FindByID(ctx, t.ProgramID)
		if err != nil {
			return uuid.Nil, err
		}
		return p.UserID, nil
	default:
		return uuid.Nil, ErrUnknownSubject
	}
}
