// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, account_id, plan, price, details, created_at, expires_at, canceled_at, stripe_session_id, stripe_subscription_id`

// CreateTx inserts a subscription inside the caller's transaction. The unique
// index on stripe_session_id makes replayed checkout finalizations fail here.
func (r *SubscriptionRepository) CreateTx(ctx context.Context, tx pgx.Tx, sub *billing.Subscription) error {
	detailsJSON, err := json.Marshal(sub.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal plan details: %w", err)
	}

	query := `
		INSERT INTO subscriptions (
			account_id, plan, price, details, expires_at,
			stripe_session_id, stripe_subscription_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query,
		sub.AccountID, sub.Plan, sub.Price, detailsJSON, sub.ExpiresAt,
		sub.StripeSessionID, sub.StripeSubscriptionID,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrAlreadyProcessed
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// FindLatestByAccount returns the account's most recent subscription row,
// canceled or not.
func (r *SubscriptionRepository) FindLatestByAccount(ctx context.Context, accountID int64) (*billing.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE account_id = $1
		ORDER BY expires_at DESC, id DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, accountID))
}

// FindByID retrieves a subscription by ID.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*billing.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// ExistsBySessionID reports whether a checkout session was already finalized.
func (r *SubscriptionRepository) ExistsBySessionID(ctx context.Context, sessionID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM subscriptions WHERE stripe_session_id = $1)`
	if err := r.db.QueryRow(ctx, query, sessionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session id: %w", err)
	}
	return exists, nil
}

// UpdateExpiry moves the subscription's expiry, used when the billing
// provider reports a newer period end during reconciliation.
func (r *SubscriptionRepository) UpdateExpiry(ctx context.Context, id int64, expiresAt time.Time) error {
	result, err := r.db.Exec(ctx, `UPDATE subscriptions SET expires_at = $1 WHERE id = $2`, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to update subscription expiry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdatePlanTx rewrites plan, price, details and expiry on the same row.
// Plan changes modify the existing subscription rather than insert a new one.
func (r *SubscriptionRepository) UpdatePlanTx(ctx context.Context, tx pgx.Tx, id int64, plan billing.PlanName, price float64, details billing.PlanDetails, expiresAt time.Time) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal plan details: %w", err)
	}

	query := `
		UPDATE subscriptions
		SET plan = $1, price = $2, details = $3, expires_at = $4
		WHERE id = $5
	`
	result, err := tx.Exec(ctx, query, plan, price, detailsJSON, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to update subscription plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetCanceledTx stamps canceled_at inside the caller's transaction.
func (r *SubscriptionRepository) SetCanceledTx(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error {
	result, err := tx.Exec(ctx, `UPDATE subscriptions SET canceled_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// HasActiveByAccount reports whether the account holds a usable subscription
// as of now.
func (r *SubscriptionRepository) HasActiveByAccount(ctx context.Context, accountID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE account_id = $1 AND canceled_at IS NULL AND expires_at > $2
		)
	`
	if err := r.db.QueryRow(ctx, query, accountID, time.Now().UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active subscription: %w", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) scanOne(row pgx.Row) (*billing.Subscription, error) {
	var sub billing.Subscription
	var detailsJSON []byte
	err := row.Scan(
		&sub.ID, &sub.AccountID, &sub.Plan, &sub.Price, &detailsJSON,
		&sub.CreatedAt, &sub.ExpiresAt, &sub.CanceledAt,
		&sub.StripeSessionID, &sub.StripeSubscriptionID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	if err := json.Unmarshal(detailsJSON, &sub.Details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan details: %w", err)
	}
	return &sub, nil
}
