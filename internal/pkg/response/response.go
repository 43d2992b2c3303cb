// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	xerrors "shiftcare-service/internal/pkg/errors"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	c.Abort()

	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(code, response)
}

// FromError maps a service error onto the response taxonomy and sends it.
// Validation-class rejections carry their specific reason; anything unmapped
// is a 500 with a generic message.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, xerrors.ErrAlreadyProcessed):
		Error(c, http.StatusConflict, "checkout session already processed", err)
	case errors.Is(err, xerrors.ErrNoActiveSubscription):
		Error(c, http.StatusPaymentRequired, "no active subscription", err)
	case errors.Is(err, xerrors.ErrQuotaExceeded):
		Error(c, http.StatusForbidden, "monthly schedule request quota exceeded", err)
	case errors.Is(err, xerrors.ErrDuplicateCustomPlan):
		Error(c, http.StatusConflict, "account already has an active custom plan", err)
	case errors.Is(err, xerrors.ErrInvalidPlanTransition):
		Error(c, http.StatusConflict, "subscription cannot be changed", err)
	case xerrors.IsResourceLimit(err):
		Error(c, http.StatusForbidden, "plan resource limit reached", err)
	case errors.Is(err, xerrors.ErrEmailTaken):
		Error(c, http.StatusConflict, "email already registered", err)
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "too many requests", nil)
	case errors.Is(err, xerrors.ErrInvalidInput):
		Error(c, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, xerrors.ErrUnauthorized), errors.Is(err, xerrors.ErrSessionExpired):
		Error(c, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, xerrors.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", nil)
	case xerrors.IsProvider(err):
		Error(c, http.StatusBadGateway, "billing provider error", err)
	default:
		Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}
