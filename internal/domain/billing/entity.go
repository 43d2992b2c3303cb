// internal/domain/billing/entity.go
package billing

import (
	"database/sql"
	"time"
)

// Subscription is the locally cached view of a Stripe subscription.
// Rows are never deleted (except by account cascade); cancellation only
// sets CanceledAt.
type Subscription struct {
	ID        int64       `json:"id" db:"id"`
	AccountID int64       `json:"account_id" db:"account_id"`
	Plan      PlanName    `json:"plan" db:"plan"`
	Price     float64     `json:"price" db:"price"`
	Details   PlanDetails `json:"plan_details" db:"plan_details"`

	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at" db:"expires_at"`
	CanceledAt sql.NullTime `json:"canceled_at,omitempty" db:"canceled_at"`

	// Stripe references. StripeSessionID is the finalize idempotency key
	// (unique constraint); StripeSubscriptionID never changes for the life
	// of the row.
	StripeSessionID      string `json:"-" db:"stripe_session_id"`
	StripeSubscriptionID string `json:"-" db:"stripe_subscription_id"`
}

// Canceled reports whether the subscription has been terminated.
func (s *Subscription) Canceled() bool {
	return s.CanceledAt.Valid
}

// CustomPlanDraft is a negotiated custom quote awaiting checkout. One row per
// account, overwritten on re-quote; kept after promotion as a historical
// record with PendingCheckoutURL cleared.
type CustomPlanDraft struct {
	AccountID int64       `json:"account_id" db:"account_id"`
	Price     float64     `json:"price" db:"price"`
	Details   PlanDetails `json:"plan_details" db:"plan_details"`
	ExpiresAt time.Time   `json:"expires_at" db:"expires_at"`

	StripeProductID    string         `json:"stripe_product_id" db:"stripe_product_id"`
	StripePriceID      string         `json:"stripe_price_id" db:"stripe_price_id"`
	PendingCheckoutURL sql.NullString `json:"pending_checkout_url,omitempty" db:"pending_checkout_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScheduleRequests counts schedule-generation requests for an account in a
// given month. A stale Month means the counter is effectively zero; the row
// is only rewritten on the next increment, never on read.
type ScheduleRequests struct {
	AccountID   int64 `json:"account_id" db:"account_id"`
	NumRequests int   `json:"num_requests" db:"num_requests"`
	Month       int   `json:"month" db:"month"` // 1-12
}

// EffectiveCount returns the counter value for the given month, treating a
// stale month as zero.
func (s *ScheduleRequests) EffectiveCount(currentMonth int) int {
	if s.Month != currentMonth {
		return 0
	}
	return s.NumRequests
}

// InvoiceView is the client-facing projection of the latest Stripe invoice.
type InvoiceView struct {
	InvoiceID        string     `json:"invoice_id"`
	AmountDue        float64    `json:"amount_due"`
	AmountPaid       float64    `json:"amount_paid"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	InvoicePDF       string     `json:"invoice_pdf,omitempty"`
	HostedInvoiceURL string     `json:"hosted_invoice_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	Description      string     `json:"description,omitempty"`
	SubscriptionID   string     `json:"subscription_id,omitempty"`
}
