package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/middleware"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/validator"
)

type ProgramHandler struct {
	learningService *service.LearningService
}

func NewProgramHandler(learningService *service.LearningService) *ProgramHandler {
	return &ProgramHandler{learningService: learningService}
}

func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	data := middleware.GetSession(c)
	if data == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return uuid.Nil, false
	}
	return data.UserID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// Start godoc
// POST /api/v1/programs
func (h *ProgramHandler) Start(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req model.StartProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.learningService.StartProgram(c.Request.Context(), req.ScenarioID, userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"program": p})
}

// List godoc
// GET /api/v1/programs
func (h *ProgramHandler) List(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	programs, err := h.learningService.ListPrograms(c.Request.Context(), userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if programs == nil {
		programs = []model.Program{}
	}
	response.Success(c, http.StatusOK, gin.H{"programs": programs})
}

// Get godoc
// GET /api/v1/programs/:program_id
func (h *ProgramHandler) Get(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "program_id")
	if !ok {
		return
	}

	p, err := h.learningService.GetProgram(c.Request.Context(), programID, userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"program": p})
}

// ListTasks godoc
// GET /api/v1/programs/:program_id/tasks
func (h *ProgramHandler) ListTasks(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "program_id")
	if !ok {
		return
	}

	tasks, err := h.learningService.ListTasks(c.Request.Context(), programID, userID, middleware.GetLanguage(c))
	if err != nil {
		failFromError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.TaskView{}
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}

// SubmitResponse godoc
// PUT /api/v1/programs/:program_id/tasks/:task_id/response
func (h *ProgramHandler) SubmitResponse(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "program_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	var req model.SubmitResponseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.learningService.SubmitResponse(c.Request.Context(), programID, taskID, userID, req.Response)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": t.Localize(middleware.GetLanguage(c))})
}

// AddInteraction godoc
// POST /api/v1/programs/:program_id/tasks/:task_id/interactions
func (h *ProgramHandler) AddInteraction(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "program_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	var req model.AddInteractionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.learningService.AppendInteraction(c.Request.Context(), programID, taskID, userID, req.Type, req.Content)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": t.Localize(middleware.GetLanguage(c))})
}

// CompleteTask godoc
// POST /api/v1/programs/:program_id/tasks/:task_id/complete
func (h *ProgramHandler) CompleteTask(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "program_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	t, err := h.learningService.CompleteTask(c.Request.Context(), programID, taskID, userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": t.Localize(middleware.GetLanguage(c))})
}
