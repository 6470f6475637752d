package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgramStatus tracks a learner's overall progress through a program.
type ProgramStatus string

const (
	ProgramStatusNotStarted ProgramStatus = "not_started"
	ProgramStatusInProgress ProgramStatus = "in_progress"
	ProgramStatusCompleted  ProgramStatus = "completed"
)

// Program is one user's run-through instance of a scenario. It owns an
// ordered sequence of tasks and belongs to exactly one user.
type Program struct {
	ID          uuid.UUID     `json:"id"`
	ScenarioID  uuid.UUID     `json:"scenario_id"`
	UserID      uuid.UUID     `json:"user_id"`
	Status      ProgramStatus `json:"status"`
	TaskIDs     []uuid.UUID   `json:"task_ids"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// StartProgramRequest is the payload for instantiating a scenario.
type StartProgramRequest struct {
	ScenarioID uuid.UUID `json:"scenario_id" binding:"required"`
}
