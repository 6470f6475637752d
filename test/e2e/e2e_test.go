package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/praxislabs/praxis-backend/internal/cache"
	"github.com/praxislabs/praxis-backend/internal/config"
	"github.com/praxislabs/praxis-backend/internal/handler"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/repository"
	"github.com/praxislabs/praxis-backend/internal/router"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/session"
	"github.com/praxislabs/praxis-backend/internal/storage"
	"github.com/praxislabs/praxis-backend/internal/validator"
)

// newServer wires the whole stack on the in-memory backend so the API can
// be exercised end to end without external services.
func newServer(t *testing.T) (*httptest.Server, *repository.Factory) {
	t.Helper()

	cfg := &config.Config{
		GinMode:          gin.TestMode,
		DefaultLanguage:  "en",
		CacheTTL:         time.Minute,
		SessionTTL:       time.Hour,
		RememberMeTTL:    24 * time.Hour,
		BcryptCost:       bcrypt.MinCost,
		AuthRateLimit:    1000,
		AuthRateInterval: time.Minute,
	}
	validator.Setup()
	log := zerolog.Nop()

	backend := storage.NewMemoryBackend()
	repos := repository.NewFactory(backend)
	sessions := session.NewStore(cfg.SessionTTL, cfg.RememberMeTTL)
	rc := cache.New(cfg.CacheTTL)

	authService := service.NewAuthService(repos.Users(), sessions, cfg.BcryptCost, log)
	contentService := service.NewContentService(repos.Scenarios(), rc, log)
	learningService := service.NewLearningService(repos.Scenarios(), repos.Programs(), repos.Tasks(), log)
	evaluationService := service.NewEvaluationService(repos.Evaluations(), repos.Programs(), repos.Tasks(), log)

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Scenario:   handler.NewScenarioHandler(contentService, rc),
		Program:    handler.NewProgramHandler(learningService),
		Evaluation: handler.NewEvaluationHandler(evaluationService),
		System:     handler.NewSystemHandler(backend, rc, sessions),
	}

	srv := httptest.NewServer(router.SetupRouter(sessions, handlers, cfg))
	t.Cleanup(srv.Close)
	return srv, repos
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}, wantStatus int) envelope {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d (error: %+v)", method, path, resp.StatusCode, wantStatus, env.Error)
	}
	return env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// seedTeacher creates a teacher account directly in the repository since
// self-registration only produces students.
func seedTeacher(t *testing.T, repos *repository.Factory, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := repos.Users().Create(context.Background(), email, "Teacher", string(hash), model.RoleTeacher); err != nil {
		t.Fatalf("seed teacher: %v", err)
	}
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	env := call(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var out struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &out)
	if out.Token == "" {
		t.Fatal("login returned empty token")
	}
	return out.Token
}

func TestFullLearnerJourney(t *testing.T) {
	srv, repos := newServer(t)

	seedTeacher(t, repos, "teacher@example.com", "password123")
	teacherToken := login(t, srv, "teacher@example.com", "password123")

	// Teacher authors a scenario. It starts as a draft.
	env := call(t, srv, http.MethodPost, "/api/v1/manage/scenarios", teacherToken, map[string]interface{}{
		"mode":  "pbl",
		"title": map[string]string{"en": "Bridge Design", "zh": "橋樑設計"},
		"task_templates": []map[string]interface{}{
			{"title": map[string]string{"en": "Research"}, "order": 1},
			{"title": map[string]string{"en": "Prototype"}, "order": 2},
		},
	}, http.StatusCreated)
	var created struct {
		Scenario model.Scenario `json:"scenario"`
	}
	decodeData(t, env, &created)
	scenarioID := created.Scenario.ID.String()
	if created.Scenario.Status != model.ScenarioStatusDraft {
		t.Fatalf("new scenario status = %q, want draft", created.Scenario.Status)
	}

	// Drafts are invisible in the public catalog.
	env = call(t, srv, http.MethodGet, "/api/v1/scenarios", "", nil, http.StatusOK)
	var catalog struct {
		Scenarios []model.ScenarioView `json:"scenarios"`
	}
	decodeData(t, env, &catalog)
	if len(catalog.Scenarios) != 0 {
		t.Fatalf("catalog lists %d scenarios before activation, want 0", len(catalog.Scenarios))
	}

	// Activate it.
	call(t, srv, http.MethodPut, "/api/v1/manage/scenarios/"+scenarioID, teacherToken, map[string]interface{}{
		"status": "active",
	}, http.StatusOK)

	// A learner registers, logs in and sees the scenario in Chinese.
	call(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "learner@example.com",
		"name":     "Learner",
		"password": "password123",
	}, http.StatusCreated)
	learnerToken := login(t, srv, "learner@example.com", "password123")

	env = call(t, srv, http.MethodGet, "/api/v1/scenarios?lang=zh", "", nil, http.StatusOK)
	decodeData(t, env, &catalog)
	if len(catalog.Scenarios) != 1 {
		t.Fatalf("catalog lists %d scenarios after activation, want 1", len(catalog.Scenarios))
	}
	if catalog.Scenarios[0].Title != "橋樑設計" {
		t.Fatalf("localized title = %q, want 橋樑設計", catalog.Scenarios[0].Title)
	}

	// Start a program.
	env = call(t, srv, http.MethodPost, "/api/v1/programs", learnerToken, map[string]interface{}{
		"scenario_id": scenarioID,
	}, http.StatusCreated)
	var started struct {
		Program model.Program `json:"program"`
	}
	decodeData(t, env, &started)
	programID := started.Program.ID.String()
	if len(started.Program.TaskIDs) != 2 {
		t.Fatalf("program has %d tasks, want 2", len(started.Program.TaskIDs))
	}

	// Work through both tasks.
	for i, taskID := range started.Program.TaskIDs {
		base := fmt.Sprintf("/api/v1/programs/%s/tasks/%s", programID, taskID)

		call(t, srv, http.MethodPut, base+"/response", learnerToken, map[string]interface{}{
			"response": map[string]string{"answer": fmt.Sprintf("answer %d", i+1)},
		}, http.StatusOK)
		call(t, srv, http.MethodPost, base+"/interactions", learnerToken, map[string]interface{}{
			"type":    "chat",
			"content": map[string]string{"text": "how does this look?"},
		}, http.StatusOK)
		call(t, srv, http.MethodPost, base+"/complete", learnerToken, nil, http.StatusOK)

		// Completed tasks are frozen.
		call(t, srv, http.MethodPut, base+"/response", learnerToken, map[string]interface{}{
			"response": map[string]string{"answer": "revised"},
		}, http.StatusConflict)
	}

	// Finishing the last task completes the program.
	env = call(t, srv, http.MethodGet, "/api/v1/programs/"+programID, learnerToken, nil, http.StatusOK)
	var fetched struct {
		Program model.Program `json:"program"`
	}
	decodeData(t, env, &fetched)
	if fetched.Program.Status != model.ProgramStatusCompleted {
		t.Fatalf("program status = %q, want completed", fetched.Program.Status)
	}

	// Teacher scores the program; the learner sees it.
	call(t, srv, http.MethodPost, "/api/v1/manage/evaluations", teacherToken, map[string]interface{}{
		"subject_id":   programID,
		"subject_type": "program",
		"scores":       map[string]float64{"overall": 0.9},
		"feedback":     "Solid work.",
	}, http.StatusCreated)

	env = call(t, srv, http.MethodGet, "/api/v1/evaluations", learnerToken, nil, http.StatusOK)
	var evals struct {
		Evaluations []model.Evaluation `json:"evaluations"`
	}
	decodeData(t, env, &evals)
	if len(evals.Evaluations) != 1 {
		t.Fatalf("learner sees %d evaluations, want 1", len(evals.Evaluations))
	}
	if evals.Evaluations[0].Feedback != "Solid work." {
		t.Fatalf("feedback = %q", evals.Evaluations[0].Feedback)
	}
}

func TestAccessControl(t *testing.T) {
	srv, repos := newServer(t)

	seedTeacher(t, repos, "teacher@example.com", "password123")

	// No session.
	call(t, srv, http.MethodGet, "/api/v1/programs", "", nil, http.StatusUnauthorized)

	// Students cannot reach manage routes.
	call(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "learner@example.com",
		"name":     "Learner",
		"password": "password123",
	}, http.StatusCreated)
	learnerToken := login(t, srv, "learner@example.com", "password123")
	call(t, srv, http.MethodPost, "/api/v1/manage/scenarios", learnerToken, map[string]interface{}{
		"mode":  "pbl",
		"title": map[string]string{"en": "Nope"},
	}, http.StatusForbidden)

	// Wrong password is indistinguishable from an unknown account.
	call(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "learner@example.com",
		"password": "wrong-password",
	}, http.StatusUnauthorized)
	call(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "ghost@example.com",
		"password": "wrong-password",
	}, http.StatusUnauthorized)

	// Logout invalidates the token.
	call(t, srv, http.MethodPost, "/api/v1/auth/logout", learnerToken, nil, http.StatusOK)
	call(t, srv, http.MethodGet, "/api/v1/programs", learnerToken, nil, http.StatusUnauthorized)
}

func TestProgramOwnership(t *testing.T) {
	srv, repos := newServer(t)

	seedTeacher(t, repos, "teacher@example.com", "password123")
	teacherToken := login(t, srv, "teacher@example.com", "password123")

	env := call(t, srv, http.MethodPost, "/api/v1/manage/scenarios", teacherToken, map[string]interface{}{
		"mode":  "discovery",
		"title": map[string]string{"en": "Solo Quest"},
		"task_templates": []map[string]interface{}{
			{"title": map[string]string{"en": "Explore"}, "order": 1},
		},
	}, http.StatusCreated)
	var created struct {
		Scenario model.Scenario `json:"scenario"`
	}
	decodeData(t, env, &created)
	scenarioID := created.Scenario.ID.String()
	call(t, srv, http.MethodPut, "/api/v1/manage/scenarios/"+scenarioID, teacherToken, map[string]interface{}{
		"status": "active",
	}, http.StatusOK)

	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		call(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
			"email":    email,
			"name":     "Learner",
			"password": "password123",
		}, http.StatusCreated)
	}
	aliceToken := login(t, srv, "alice@example.com", "password123")
	bobToken := login(t, srv, "bob@example.com", "password123")

	env = call(t, srv, http.MethodPost, "/api/v1/programs", aliceToken, map[string]interface{}{
		"scenario_id": scenarioID,
	}, http.StatusCreated)
	var started struct {
		Program model.Program `json:"program"`
	}
	decodeData(t, env, &started)
	programID := started.Program.ID.String()

	// Another learner cannot read or advance it.
	call(t, srv, http.MethodGet, "/api/v1/programs/"+programID, bobToken, nil, http.StatusForbidden)
	call(t, srv, http.MethodGet, "/api/v1/programs/"+programID+"/tasks", bobToken, nil, http.StatusForbidden)
}
