// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"shiftcare-service/internal/pkg/jwt"
	"shiftcare-service/internal/pkg/response"
	"shiftcare-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

type AuthMiddleware struct {
	verifier *jwt.Verifier
	sessions *session.Manager
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier *jwt.Verifier, sessions *session.Manager, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
		logger:   logger,
	}
}

// Auth validates the bearer token, rejects blacklisted or session-less
// tokens and stores the claims on the request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		blacklisted, err := m.sessions.IsTokenBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			m.logger.Error("blacklist lookup failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		if blacklisted {
			response.Error(c, http.StatusUnauthorized, "token revoked", nil)
			return
		}

		if _, err := m.sessions.GetSession(c.Request.Context(), claims.AccountID, claims.ID); err != nil {
			response.Error(c, http.StatusUnauthorized, "session expired", nil)
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("jti", claims.ID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// OperatorOnly gates an endpoint to operator tokens. MUST follow Auth().
func (m *AuthMiddleware) OperatorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != jwt.RoleOperator {
			response.Forbidden(c, "operator access required")
			return
		}
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the access token cookie for browser clients.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
