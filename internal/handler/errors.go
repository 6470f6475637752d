package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praxislabs/praxis-backend/internal/repository"
	"github.com/praxislabs/praxis-backend/internal/response"
	"github.com/praxislabs/praxis-backend/internal/service"
	"github.com/praxislabs/praxis-backend/internal/storage"
)

// failFromError maps repository/service errors onto the response taxonomy.
// The distinction that matters most: a miss is 404, an unreachable backend
// is 503 and never silently degraded.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case storage.IsUnavailable(err):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorageUnavailable)
	case errors.Is(err, service.ErrScenarioNotActive):
		response.Fail(c, http.StatusConflict, response.ErrScenarioNotActive)
	case errors.Is(err, service.ErrNotProgramOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotProgramOwner)
	case errors.Is(err, service.ErrNotProgramTask):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrUnknownSubject):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrModeImmutable):
		response.Fail(c, http.StatusConflict, response.ErrModeImmutable)
	case errors.Is(err, repository.ErrTaskFrozen):
		response.Fail(c, http.StatusConflict, response.ErrTaskCompleted)
	case errors.Is(err, repository.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
