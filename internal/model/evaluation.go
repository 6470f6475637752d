package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectType names the kind of entity an evaluation scores.
type SubjectType string

const (
	SubjectTask    SubjectType = "task"
	SubjectProgram SubjectType = "program"
)

// Evaluation is the immutable result of scoring a task or a program.
// Re-evaluating the same subject creates a new record; history is never
// mutated.
type Evaluation struct {
	ID          uuid.UUID          `json:"id"`
	SubjectID   uuid.UUID          `json:"subject_id"`
	SubjectType SubjectType        `json:"subject_type"`
	UserID      uuid.UUID          `json:"user_id"`
	EvaluatorID uuid.UUID          `json:"evaluator_id"`
	Scores      map[string]float64 `json:"scores"`
	Feedback    string             `json:"feedback,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CreateEvaluationRequest is the payload for recording an evaluation.
type CreateEvaluationRequest struct {
	SubjectID   uuid.UUID          `json:"subject_id" binding:"required"`
	SubjectType SubjectType        `json:"subject_type" binding:"required,oneof=task program"`
	Scores      map[string]float64 `json:"scores" binding:"required,min=1"`
	Feedback    string             `json:"feedback" binding:"omitempty,max=10000"`
}
