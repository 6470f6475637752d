package repository

import (
	"fmt"

	"github.com/google/uuid"
)

// KeyStruct builds every persisted key so the namespace layout lives in one
// place. Primary documents sit under "<entity>:<id>"; secondary lookups are
// separate index keys whose prefix is scanned with List.
type KeyStruct struct{}

// NewKeyStruct creates a KeyStruct.
func NewKeyStruct() *KeyStruct {
	return &KeyStruct{}
}

// ScenarioKey returns the primary key for a scenario document.
func (k *KeyStruct) ScenarioKey(id uuid.UUID) string {
	return fmt.Sprintf("scenario:%s", id)
}

// ScenarioPrefix returns the scan prefix covering all scenarios.
func (k *KeyStruct) ScenarioPrefix() string { return "scenario:" }

// ProgramKey returns the primary key for a program document.
func (k *KeyStruct) ProgramKey(id uuid.UUID) string {
	return fmt.Sprintf("program:%s", id)
}

// UserProgramIndexKey returns the index entry linking a user to one program.
func (k *KeyStruct) UserProgramIndexKey(userID, programID uuid.UUID) string {
	return fmt.Sprintf("idx:user_programs:%s:%s", userID, programID)
}

// UserProgramPrefix returns the scan prefix for one user's programs.
func (k *KeyStruct) UserProgramPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("idx:user_programs:%s:", userID)
}

// TaskKey returns the primary key for a task document.
func (k *KeyStruct) TaskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

// ProgramTaskIndexKey returns the order-preserving index entry for a task
// inside its program. The zero-padded order keeps key-sorted scans in
// task order.
func (k *KeyStruct) ProgramTaskIndexKey(programID uuid.UUID, order int, taskID uuid.UUID) string {
	return fmt.Sprintf("idx:program_tasks:%s:%04d:%s", programID, order, taskID)
}

// ProgramTaskPrefix returns the scan prefix for one program's tasks.
func (k *KeyStruct) ProgramTaskPrefix(programID uuid.UUID) string {
	return fmt.Sprintf("idx:program_tasks:%s:", programID)
}

// EvaluationKey returns the primary key for an evaluation document.
func (k *KeyStruct) EvaluationKey(id uuid.UUID) string {
	return fmt.Sprintf("evaluation:%s", id)
}

// SubjectEvaluationIndexKey links an evaluated subject to one evaluation.
func (k *KeyStruct) SubjectEvaluationIndexKey(subjectType string, subjectID, evalID uuid.UUID) string {
	return fmt.Sprintf("idx:subject_evals:%s:%s:%s", subjectType, subjectID, evalID)
}

// SubjectEvaluationPrefix returns the scan prefix for a subject's evaluations.
func (k *KeyStruct) SubjectEvaluationPrefix(subjectType string, subjectID uuid.UUID) string {
	return fmt.Sprintf("idx:subject_evals:%s:%s:", subjectType, subjectID)
}

// UserEvaluationIndexKey links a learner to one evaluation of their work.
func (k *KeyStruct) UserEvaluationIndexKey(userID, evalID uuid.UUID) string {
	return fmt.Sprintf("idx:user_evals:%s:%s", userID, evalID)
}

// UserEvaluationPrefix returns the scan prefix for a learner's evaluations.
func (k *KeyStruct) UserEvaluationPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("idx:user_evals:%s:", userID)
}

// UserKey returns the primary key for a user document.
func (k *KeyStruct) UserKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// UserEmailIndexKey returns the unique email → user id lookup key.
func (k *KeyStruct) UserEmailIndexKey(email string) string {
	return fmt.Sprintf("idx:user_email:%s", email)
}

// Key is the shared key builder instance.
var Key = NewKeyStruct()
