// internal/pkg/session/types.go
package session

import "time"

type SessionData struct {
	JTI            string    `json:"jti"`
	AccountID      int64     `json:"account_id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}
