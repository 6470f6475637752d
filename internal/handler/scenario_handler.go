package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praxislabs/praxis-backend/internal/cache"
	"github.com/praxislabs/praxis-backend/internal/middleware"
	"github.com/praxislabs/praxis-backend/internal/model"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/validator"
)

type ScenarioHandler struct {
	contentService *service.ContentService
	rc             *cache.RequestCache
}

func NewScenarioHandler(contentService *service.ContentService, rc *cache.RequestCache) *ScenarioHandler {
	return &ScenarioHandler{contentService: contentService, rc: rc}
}

// cacheKey builds the request-cache key from the HTTP method, route path
// and query, plus the negotiated language so localized responses never
// collide.
func cacheKey(c *gin.Context) string {
	params := map[string]string{"_lang": middleware.GetLanguage(c)}
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	return cache.BuildKey(c.Request.Method, c.FullPath(), params)
}

// ListActive godoc
// GET /api/v1/scenarios — the learner-facing catalog; only ACTIVE
// scenarios, request-cached.
func (h *ScenarioHandler) ListActive(c *gin.Context) {
	key := cacheKey(c)
	if v, ok := h.rc.Get(key); ok {
		response.Success(c, http.StatusOK, gin.H{"scenarios": v})
		return
	}

	lang := middleware.GetLanguage(c)

	var (
		views []model.ScenarioView
		err   error
	)
	if mode := c.Query("mode"); mode != "" {
		views, err = h.contentService.FindByMode(c.Request.Context(), model.ScenarioMode(mode), lang)
		if err == nil {
			// FindByMode does not filter visibility; the catalog only
			// shows active scenarios.
			active := views[:0]
			for _, v := range views {
				if v.Status == model.ScenarioStatusActive {
					active = append(active, v)
				}
			}
			views = active
		}
	} else {
		views, err = h.contentService.FindActive(c.Request.Context(), lang)
	}
	if err != nil {
		failFromError(c, err)
		return
	}

	h.rc.Set(key, views)
	response.Success(c, http.StatusOK, gin.H{"scenarios": views})
}

// Get godoc
// GET /api/v1/scenarios/:id
func (h *ScenarioHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	key := cacheKey(c)
	if v, ok := h.rc.Get(key); ok {
		response.Success(c, http.StatusOK, gin.H{"scenario": v})
		return
	}

	view, err := h.contentService.FindByID(c.Request.Context(), id, middleware.GetLanguage(c))
	if err != nil {
		failFromError(c, err)
		return
	}

	h.rc.Set(key, view)
	response.Success(c, http.StatusOK, gin.H{"scenario": view})
}

// ListAll godoc
// GET /api/v1/manage/scenarios — teacher view including drafts.
func (h *ScenarioHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	views, err := h.contentService.FindAll(c.Request.Context(), limit, offset, middleware.GetLanguage(c))
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"scenarios": views})
}

// Create godoc
// POST /api/v1/manage/scenarios
func (h *ScenarioHandler) Create(c *gin.Context) {
	var req model.CreateScenarioRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sc, err := h.contentService.Create(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"scenario": sc})
}

// Update godoc
// PUT /api/v1/manage/scenarios/:id
func (h *ScenarioHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateScenarioRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sc, err := h.contentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"scenario": sc})
}

// Delete godoc
// DELETE /api/v1/manage/scenarios/:id
func (h *ScenarioHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.contentService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "scenario deleted"})
}
