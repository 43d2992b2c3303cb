// internal/service/billing/interfaces.go
package billing

import (
	"context"
	"time"

	"shiftcare-service/internal/domain/account"
	"shiftcare-service/internal/domain/billing"

	"github.com/jackc/pgx/v5"
)

// Stores are the slices of the repository layer the billing service consumes.
// The postgres implementations satisfy them directly.

type AccountStore interface {
	FindByID(ctx context.Context, id int64) (*account.Account, error)
	MarkTrialUsedTx(ctx context.Context, tx pgx.Tx, id int64) error
	SetStripeCustomerIDTx(ctx context.Context, tx pgx.Tx, id int64, customerID string) error
}

type SubscriptionStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, sub *billing.Subscription) error
	FindLatestByAccount(ctx context.Context, accountID int64) (*billing.Subscription, error)
	ExistsBySessionID(ctx context.Context, sessionID string) (bool, error)
	UpdateExpiry(ctx context.Context, id int64, expiresAt time.Time) error
	UpdatePlanTx(ctx context.Context, tx pgx.Tx, id int64, plan billing.PlanName, price float64, details billing.PlanDetails, expiresAt time.Time) error
	SetCanceledTx(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error
}

type CustomPlanStore interface {
	Upsert(ctx context.Context, draft *billing.CustomPlanDraft) error
	FindByAccount(ctx context.Context, accountID int64) (*billing.CustomPlanDraft, error)
	ClearPendingCheckoutURLTx(ctx context.Context, tx pgx.Tx, accountID int64) error
}

type UsageStore interface {
	Create(ctx context.Context, accountID int64, month int) error
	Get(ctx context.Context, accountID int64) (*billing.ScheduleRequests, error)
	Increment(ctx context.Context, tx pgx.Tx, accountID int64, currentMonth int) (*billing.ScheduleRequests, error)
}

// ResourceCounter counts an account's current resources of one kind.
// EmployeeRepository and ShiftRepository both satisfy it.
type ResourceCounter interface {
	CountByAccount(ctx context.Context, accountID int64) (int, error)
}

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
