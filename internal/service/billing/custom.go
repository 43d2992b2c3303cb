// internal/service/billing/custom.go
package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// defaultCustomPlanDays is the billing period recorded on a custom quote
// when the operator does not specify one.
const defaultCustomPlanDays = 30

// QuoteCustomPlan is the operator flow that negotiates a per-account plan:
// it creates a dedicated provider product, price and checkout session, then
// upserts the account's single draft row. Re-quoting overwrites the previous
// draft. Promotion to a live subscription happens only through
// FinalizeCustomSubscription once the checkout completes.
func (s *BillingService) QuoteCustomPlan(ctx context.Context, accountID int64, price float64, days int, details billing.PlanDetails) (string, *billing.CustomPlanDraft, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return "", nil, fmt.Errorf("failed to load account: %w", err)
	}
	if days <= 0 {
		days = defaultCustomPlanDays
	}

	quote, err := s.provider.CreateCustomQuote(ctx, accountID, price)
	if err != nil {
		return "", nil, err
	}

	draft := &billing.CustomPlanDraft{
		AccountID:          accountID,
		Price:              price,
		Details:            details,
		ExpiresAt:          s.now().UTC().Add(time.Duration(days) * 24 * time.Hour),
		StripeProductID:    quote.ProductID,
		StripePriceID:      quote.PriceID,
		PendingCheckoutURL: sql.NullString{String: quote.CheckoutURL, Valid: true},
	}
	if err := s.drafts.Upsert(ctx, draft); err != nil {
		return "", nil, err
	}

	s.logger.Info("custom plan quoted",
		zap.Int64("account_id", accountID),
		zap.Float64("price", price),
		zap.Int("days", days))
	return quote.CheckoutURL, draft, nil
}

// PendingCheckoutURL returns the account's unfinished custom checkout link,
// or empty when there is no draft or the draft was already promoted.
func (s *BillingService) PendingCheckoutURL(ctx context.Context, accountID int64) (string, error) {
	draft, err := s.drafts.FindByAccount(ctx, accountID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load custom plan draft: %w", err)
	}
	if !draft.PendingCheckoutURL.Valid {
		return "", nil
	}
	return draft.PendingCheckoutURL.String, nil
}
