// internal/domain/account/entity.go
package account

import (
	"database/sql"
	"time"
)

// Account is a tenant of the scheduling service. Each account owns its
// employees, shift types, schedules and subscription history.
type Account struct {
	ID             int64          `json:"id" db:"id"`
	Email          string         `json:"email" db:"email"`
	HashedPassword sql.NullString `json:"-" db:"hashed_password"`
	EmailVerified  bool           `json:"email_verified" db:"email_verified"`

	// Billing
	StripeCustomerID sql.NullString `json:"stripe_customer_id,omitempty" db:"stripe_customer_id"`
	HasUsedTrial     bool           `json:"has_used_trial" db:"has_used_trial"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
