// internal/service/payment/provider.go
package payment

import (
	"context"
	"time"
)

// Subscription statuses reported by the provider. Active and Trialing count
// as usable; everything else is terminal for resolution purposes.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// CheckoutSession is the provider's view of a completed or pending checkout.
type CheckoutSession struct {
	ID             string
	URL            string
	CustomerID     string
	SubscriptionID string
}

// SubscriptionState is the provider's authoritative subscription snapshot.
type SubscriptionState struct {
	ID        string
	Status    string
	PeriodEnd time.Time
}

// Usable reports whether the provider considers the subscription billable.
func (s *SubscriptionState) Usable() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}

// CustomQuote is the provider-side material backing a custom plan draft.
type CustomQuote struct {
	ProductID   string
	PriceID     string
	CheckoutURL string
	SessionID   string
}

// Invoice is the provider's view of an issued invoice. Amounts are in the
// currency's major unit (dollars, not cents).
type Invoice struct {
	ID               string
	AmountDue        float64
	AmountPaid       float64
	Currency         string
	Status           string
	InvoicePDF       string
	HostedInvoiceURL string
	CreatedAt        time.Time
	DueDate          *time.Time
	Description      string
	SubscriptionID   string
}

// Provider is the abstract billing capability consumed by the billing
// service. It is the source of truth for subscription status and billing
// period boundaries.
type Provider interface {
	// CreateCheckoutSession opens a hosted checkout for a predefined plan.
	// trialDays > 0 attaches a free trial period to the new subscription.
	CreateCheckoutSession(ctx context.Context, plan string, trialDays int64) (*CheckoutSession, error)

	// CreateCustomQuote creates a dedicated product, price and checkout
	// session for a negotiated per-account plan.
	CreateCustomQuote(ctx context.Context, accountID int64, price float64) (*CustomQuote, error)

	// CheckoutSession retrieves a checkout session by its reference.
	CheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// Subscription retrieves the live state of a subscription.
	Subscription(ctx context.Context, subscriptionID string) (*SubscriptionState, error)

	// ChangeSubscriptionPlan repoints the subscription's priced item at the
	// new plan's price and immediately invoices the prorated difference.
	ChangeSubscriptionPlan(ctx context.Context, subscriptionID, customerID, plan string) error

	// CancelSubscription cancels with proration, refunding the unused
	// portion of the current period.
	CancelSubscription(ctx context.Context, subscriptionID string) error

	// DeleteCustomer removes the customer record and its stored payment
	// methods.
	DeleteCustomer(ctx context.Context, customerID string) error

	// LatestInvoice returns the customer's most recent invoice.
	LatestInvoice(ctx context.Context, customerID string) (*Invoice, error)
}
