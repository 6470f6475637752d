package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/middleware"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/validator"
)

type EvaluationHandler struct {
	evaluationService *service.EvaluationService
}

func NewEvaluationHandler(evaluationService *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// Record godoc
// POST /api/v1/manage/evaluations
func (h *EvaluationHandler) Record(c *gin.Context) {
	data := middleware.GetSession(c)
	if data == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	var req model.CreateEvaluationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.evaluationService.Record(c.Request.Context(), data.UserID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"evaluation": e})
}

// ListBySubject godoc
// GET /api/v1/manage/evaluations/:subject_type/:subject_id — the full
// scoring history of one task or program, newest first.
func (h *EvaluationHandler) ListBySubject(c *gin.Context) {
	subjectType := model.SubjectType(c.Param("subject_type"))
	if subjectType != model.SubjectTask && subjectType != model.SubjectProgram {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	subjectID, ok := pathID(c, "subject_id")
	if !ok {
		return
	}

	evals, err := h.evaluationService.FindBySubject(c.Request.Context(), subjectType, subjectID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if evals == nil {
		evals = []model.Evaluation{}
	}
	response.Success(c, http.StatusOK, gin.H{"evaluations": evals})
}

// ListMine godoc
// GET /api/v1/evaluations — every evaluation of the caller's own work.
func (h *EvaluationHandler) ListMine(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	evals, err := h.evaluationService.FindByUser(c.Request.Context(), userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if evals == nil {
		evals = []model.Evaluation{}
	}
	response.Success(c, http.StatusOK, gin.H{"evaluations": evals})
}

// ListByUser godoc
// GET /api/v1/manage/users/:user_id/evaluations
func (h *EvaluationHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	evals, err := h.evaluationService.FindByUser(c.Request.Context(), userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if evals == nil {
		evals = []model.Evaluation{}
	}
	response.Success(c, http.StatusOK, gin.H{"evaluations": evals})
}
