// internal/repository/postgres/custom_plan_repo.go
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
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomPlanRepository struct {
	db *pgxpool.Pool
}

func NewCustomPlanRepository(db *pgxpool.Pool) *CustomPlanRepository {
	return &CustomPlanRepository{db: db}
}

const customPlanColumns = `account_id, price, details, expires_at, stripe_product_id, stripe_price_id, pending_checkout_url, created_at, updated_at`

// Upsert stores the account's custom plan draft. A new quote for the same
// account replaces the previous draft in place.
func (r *CustomPlanRepository) Upsert(ctx context.Context, draft *billing.CustomPlanDraft) error {
	detailsJSON, err := json.Marshal(draft.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal plan details: %w", err)
	}

	query := `
		INSERT INTO custom_plans (
			account_id, price, details, expires_at,
			stripe_product_id, stripe_price_id, pending_checkout_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id) DO UPDATE SET
			price = EXCLUDED.price,
			details = EXCLUDED.details,
			expires_at = EXCLUDED.expires_at,
			stripe_product_id = EXCLUDED.stripe_product_id,
			stripe_price_id = EXCLUDED.stripe_price_id,
			pending_checkout_url = EXCLUDED.pending_checkout_url,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		draft.AccountID, draft.Price, detailsJSON, draft.ExpiresAt,
		draft.StripeProductID, draft.StripePriceID, draft.PendingCheckoutURL,
	).Scan(&draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert custom plan: %w", err)
	}
	return nil
}

// FindByAccount retrieves the account's custom plan draft.
func (r *CustomPlanRepository) FindByAccount(ctx context.Context, accountID int64) (*billing.CustomPlanDraft, error) {
	query := `SELECT ` + customPlanColumns + ` FROM custom_plans WHERE account_id = $1`

	var draft billing.CustomPlanDraft
	var detailsJSON []byte
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&draft.AccountID, &draft.Price, &detailsJSON, &draft.ExpiresAt,
		&draft.StripeProductID, &draft.StripePriceID, &draft.PendingCheckoutURL,
		&draft.CreatedAt, &draft.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find custom plan: %w", err)
	}
	if err := json.Unmarshal(detailsJSON, &draft.Details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan details: %w", err)
	}
	return &draft, nil
}

// ClearPendingCheckoutURLTx removes the draft's checkout link once the draft
// has been promoted to a live subscription.
func (r *CustomPlanRepository) ClearPendingCheckoutURLTx(ctx context.Context, tx pgx.Tx, accountID int64) error {
	query := `UPDATE custom_plans SET pending_checkout_url = NULL, updated_at = $1 WHERE account_id = $2`
	result, err := tx.Exec(ctx, query, time.Now().UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to clear pending checkout url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
