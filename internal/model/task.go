package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus enumerates the states of a task within a program.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// Interaction is one appended log entry on a task (chat turn, hint request,
// answer attempt). Entries are append-only while the task is open and
// frozen once it completes.
type Interaction struct {
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
}

// Task is a unit of work inside a program, instantiated from a scenario's
// task template.
type Task struct {
	ID           uuid.UUID       `json:"id"`
	ProgramID    uuid.UUID       `json:"program_id"`
	Order        int             `json:"order"`
	Title        Multilingual    `json:"title"`
	Instructions Multilingual    `json:"instructions,omitempty"`
	Status       TaskStatus      `json:"status"`
	Response     json.RawMessage `json:"response,omitempty"`
	Interactions []Interaction   `json:"interactions,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TaskView is the localized task DTO.
type TaskView struct {
	ID           uuid.UUID       `json:"id"`
	ProgramID    uuid.UUID       `json:"program_id"`
	Order        int             `json:"order"`
	Title        string          `json:"title"`
	Instructions string          `json:"instructions,omitempty"`
	Status       TaskStatus      `json:"status"`
	Response     json.RawMessage `json:"response,omitempty"`
	Interactions []Interaction   `json:"interactions,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Localize resolves the task's multilingual fields for the given language.
func (t *Task) Localize(lang string) TaskView {
	return TaskView{
		ID:           t.ID,
		ProgramID:    t.ProgramID,
		Order:        t.Order,
		Title:        t.Title.Resolve(lang),
		Instructions: t.Instructions.Resolve(lang),
		Status:       t.Status,
		Response:     t.Response,
		Interactions: t.Interactions,
		CompletedAt:  t.CompletedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// SubmitResponseRequest carries a learner's free-form answer payload.
type SubmitResponseRequest struct {
	Response json.RawMessage `json:"response" binding:"required"`
}

// AddInteractionRequest appends one interaction log entry to a task.
type AddInteractionRequest struct {
	Type    string          `json:"type" binding:"required,min=1,max=64"`
	Content json.RawMessage `json:"content" binding:"required"`
}
