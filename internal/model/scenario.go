package model

import (
	"time"

	"github.com/google/uuid"
)

// ScenarioMode enumerates the learning modes a scenario can run in.
// The mode is fixed at creation time.
type ScenarioMode string

const (
	ModePBL        ScenarioMode = "pbl"
	ModeAssessment ScenarioMode = "assessment"
	ModeDiscovery  ScenarioMode = "discovery"
)

// ScenarioStatus enumerates the lifecycle states of a scenario.
// Only ACTIVE scenarios are visible to learners.
type ScenarioStatus string

const (
	ScenarioStatusDraft    ScenarioStatus = "draft"
	ScenarioStatusActive   ScenarioStatus = "active"
	ScenarioStatusArchived ScenarioStatus = "archived"
)

// TaskTemplate is one step of a scenario, instantiated into a Task when a
// learner starts a program.
type TaskTemplate struct {
	Title        Multilingual `json:"title"`
	Instructions Multilingual `json:"instructions,omitempty"`
	Order        int          `json:"order"`
}

// Scenario is a reusable learning activity template, shared read-only
// reference data across all users.
type Scenario struct {
	ID            uuid.UUID      `json:"id"`
	Mode          ScenarioMode   `json:"mode"`
	Status        ScenarioStatus `json:"status"`
	Title         Multilingual   `json:"title"`
	Description   Multilingual   `json:"description,omitempty"`
	TaskTemplates []TaskTemplate `json:"task_templates,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ScenarioView is the localized DTO handed to callers: multilingual fields
// collapsed to the requested language.
type ScenarioView struct {
	ID          uuid.UUID      `json:"id"`
	Mode        ScenarioMode   `json:"mode"`
	Status      ScenarioStatus `json:"status"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	TaskCount   int            `json:"task_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Localize resolves all multilingual fields for the given language.
func (s *Scenario) Localize(lang string) ScenarioView {
	return ScenarioView{
		ID:          s.ID,
		Mode:        s.Mode,
		Status:      s.Status,
		Title:       s.Title.Resolve(lang),
		Description: s.Description.Resolve(lang),
		TaskCount:   len(s.TaskTemplates),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// CreateScenarioRequest is the payload for creating a new scenario.
type CreateScenarioRequest struct {
	Mode          ScenarioMode   `json:"mode" binding:"required,oneof=pbl assessment discovery"`
	Title         Multilingual   `json:"title" binding:"required"`
	Description   Multilingual   `json:"description" binding:"omitempty"`
	TaskTemplates []TaskTemplate `json:"task_templates" binding:"omitempty,dive"`
}

// UpdateScenarioRequest is the patch payload for an existing scenario.
// Mode may be echoed back by clients but can never change after creation;
// a differing value is rejected.
type UpdateScenarioRequest struct {
	Mode          *ScenarioMode   `json:"mode" binding:"omitempty,oneof=pbl assessment discovery"`
	Title         Multilingual    `json:"title" binding:"omitempty"`
	Description   Multilingual    `json:"description" binding:"omitempty"`
	Status        *ScenarioStatus `json:"status" binding:"omitempty,oneof=draft active archived"`
	TaskTemplates []TaskTemplate  `json:"task_templates" binding:"omitempty,dive"`
}
