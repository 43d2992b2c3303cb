// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in tokens. Operators are staff who negotiate custom plans.
const (
	RoleAccount  = "account"
	RoleOperator = "operator"
)

// Claims represents the JWT claims
type Claims struct {
	AccountID int64  `json:"account_id"`
	Role      string `json:"role,omitempty"`
	IsTemp    bool   `json:"is_temp"`
	Purpose   string `json:"purpose"` // access, refresh, email_verification, password_reset
	jwt.RegisteredClaims
}

// IsOperator reports whether the token belongs to staff.
func (c *Claims) IsOperator() bool {
	return c.Role == RoleOperator
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}
	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}
