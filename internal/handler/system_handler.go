package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/cache"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/session"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

type SystemHandler struct {
	backend  storage.Backend
	rc       *cache.RequestCache
	sessions *session.Store
}

func NewSystemHandler(backend storage.Backend, rc *cache.RequestCache, sessions *session.Store) *SystemHandler {
	return &SystemHandler{backend: backend, rc: rc, sessions: sessions}
}

// Health godoc
// GET /health — liveness plus storage backend reachability. Returns 503
// when the backend is down so load balancers can rotate the node out.
func (h *SystemHandler) Health(c *gin.Context) {
	status := h.backend.HealthStatus(c.Request.Context())

	code := http.StatusOK
	state := "ok"
	if !status.Healthy {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	response.Success(c, code, gin.H{
		"status":  state,
		"storage": status,
	})
}

// Stats godoc
// GET /api/v1/manage/system/stats — in-process counters for operators.
func (h *SystemHandler) Stats(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"cached_responses": h.rc.Len(),
		"active_sessions":  h.sessions.Len(),
	})
}
