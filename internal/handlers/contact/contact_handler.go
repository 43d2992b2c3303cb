// internal/handlers/contact/contact_handler.go
package contact

import (
	"net/http"

	"shiftcare-service/internal/domain/account"
	"shiftcare-service/internal/pkg/response"
	"shiftcare-service/internal/pkg/session"
	"shiftcare-service/internal/service/email"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	emailSender *email.EmailSender
	rateLimiter *session.RateLimiter
	supportAddr string
	logger      *zap.Logger
}

func NewContactHandler(emailSender *email.EmailSender, rateLimiter *session.RateLimiter, supportAddr string, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		emailSender: emailSender,
		rateLimiter: rateLimiter,
		supportAddr: supportAddr,
		logger:      logger,
	}
}

// Submit forwards a contact form message to the support inbox.
func (h *ContactHandler) Submit(c *gin.Context) {
	allowed, err := h.rateLimiter.CheckContactAttempt(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.logger.Error("contact rate limiter failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	if !allowed {
		response.Error(c, http.StatusTooManyRequests, "too many messages, try again later", nil)
		return
	}

	var req account.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.emailSender.SendContactMessage(h.supportAddr, req.Email, req.Name, req.Message); err != nil {
		h.logger.Error("failed to forward contact message", zap.Error(err))
		response.Error(c, http.StatusBadGateway, "failed to send message", nil)
		return
	}
	response.Success(c, http.StatusOK, "message sent", nil)
}
