package handlers

import (
	"net/http"
	"strconv"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/campus-hub/quiz-service/internal/services"
	"github.com/gin-gonic/gin"
)

const callerContextKey = "caller"

// CallerFromContext returns the authenticated caller placed by the auth
// middleware.
func CallerFromContext(c *gin.Context) (models.Caller, bool) {
	value, exists := c.Get(callerContextKey)
	if !exists {
		return models.Caller{}, false
	}
	caller, ok := value.(models.Caller)
	return caller, ok
}

// RequireCaller aborts with 401 when no authenticated caller is attached.
func RequireCaller(c *gin.Context) (models.Caller, bool) {
	caller, ok := CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		c.Abort()
	}
	return caller, ok
}

// ParseIDParam parses a numeric path parameter, responding 400 on failure.
// Returns 0 when the response has already been written.
func ParseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Every category stays distinguishable for the client; nothing is coerced
// to success.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error(), Code: "NOT_FOUND"})
	case services.IsForbidden(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error(), Code: "FORBIDDEN"})
	case services.IsExpired(err):
		c.JSON(http.StatusGone, ErrorResponse{Message: err.Error(), Code: "EXPIRED"})
	case services.IsCancelled(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "ALREADY_CANCELLED"})
	case services.IsInvalidState(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error(), Code: "INVALID_STATE"})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}
