package repository

import (
	"sync"

	"github.com/praxislabs/praxis-backend/internal/storage"
)

// Factory hands out one repository instance per entity type, each bound to
// the configured storage backend. Constructed once at process start;
// accessors are identity-stable and safe across concurrent requests.
// Swapping backends (tests) means building a new Factory, never mutating
// repositories in place.
type Factory struct {
	backend storage.Backend

	scenarioOnce sync.Once
	scenarios    *ScenarioRepository

	programOnce sync.Once
	programs    *ProgramRepository

	taskOnce sync.Once
	tasks    *TaskRepository

	evaluationOnce sync.Once
	evaluations    *EvaluationRepository

	userOnce sync.Once
	users    *UserRepository
}

// NewFactory binds a factory to a storage backend.
func NewFactory(backend storage.Backend) *Factory {
	return &Factory{backend: backend}
}

// Backend exposes the bound backend for health reporting.
func (f *Factory) Backend() storage.Backend { return f.backend }

// Scenarios returns the process-wide scenario repository.
func (f *Factory) Scenarios() *ScenarioRepository {
	f.scenarioOnce.Do(func() {
		f.scenarios = NewScenarioRepository(f.backend)
	})
	return f.scenarios
}

// Programs returns the process-wide program repository.
func (f *Factory) Programs() *ProgramRepository {
	f.programOnce.Do(func() {
		f.programs = NewProgramRepository(f.backend)
	})
	return f.programs
}

// Tasks returns the process-wide task repository.
func (f *Factory) Tasks() *TaskRepository {
	f.taskOnce.Do(func() {
		f.tasks = NewTaskRepository(f.backend)
	})
	return f.tasks
}

// Evaluations returns the process-wide evaluation repository.
func (f *Factory) Evaluations() *EvaluationRepository {
	f.evaluationOnce.Do(func() {
		f.evaluations = NewEvaluationRepository(f.backend)
	})
	return f.evaluations
}

// Users returns the process-wide user repository.
func (f *Factory) Users() *UserRepository {
	f.userOnce.Do(func() {
		f.users = NewUserRepository(f.backend)
	})
	return f.users
}
