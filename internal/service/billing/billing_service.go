// internal/service/billing/billing_service.go
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftcare-service/internal/domain/account"
	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/service/payment"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// trialDays is the free trial granted on an account's first subscription.
const trialDays = 7

// BillingService owns the subscription lifecycle: checkout, finalization,
// plan changes, cancellation, custom quotes and usage quotas. The payment
// provider is the source of truth for subscription status; local rows are a
// cache reconciled lazily on read.
type BillingService struct {
	accounts  AccountStore
	subs      SubscriptionStore
	drafts    CustomPlanStore
	usage     UsageStore
	employees ResourceCounter
	shifts    ResourceCounter
	provider  payment.Provider
	tx        TxRunner
	logger    *zap.Logger

	now func() time.Time
}

func NewBillingService(
	accounts AccountStore,
	subs SubscriptionStore,
	drafts CustomPlanStore,
	usage UsageStore,
	employees ResourceCounter,
	shifts ResourceCounter,
	provider payment.Provider,
	tx TxRunner,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		accounts:  accounts,
		subs:      subs,
		drafts:    drafts,
		usage:     usage,
		employees: employees,
		shifts:    shifts,
		provider:  provider,
		tx:        tx,
		logger:    logger,
		now:       time.Now,
	}
}

// ResolveActiveSubscription returns the account's currently usable
// subscription, or nil if there is none. A locally expired row triggers one
// provider lookup: a still-usable provider status extends the local expiry to
// the provider's period end, a terminal status leaves the row untouched as
// history. This is the only place provider status is consulted for activity.
func (s *BillingService) ResolveActiveSubscription(ctx context.Context, accountID int64) (*billing.Subscription, error) {
	sub, err := s.subs.FindLatestByAccount(ctx, accountID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subscription: %w", err)
	}

	if sub.Canceled() {
		return nil, nil
	}
	if sub.ExpiresAt.After(s.now()) {
		return sub, nil
	}

	state, err := s.provider.Subscription(ctx, sub.StripeSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile subscription %d: %w", sub.ID, err)
	}
	if !state.Usable() {
		return nil, nil
	}

	if err := s.subs.UpdateExpiry(ctx, sub.ID, state.PeriodEnd); err != nil {
		return nil, fmt.Errorf("failed to extend subscription %d: %w", sub.ID, err)
	}
	sub.ExpiresAt = state.PeriodEnd

	s.logger.Info("subscription expiry reconciled",
		zap.Int64("account_id", accountID),
		zap.Int64("subscription_id", sub.ID),
		zap.Time("expires_at", sub.ExpiresAt))
	return sub, nil
}

// StartCheckout opens a hosted checkout session for a predefined plan and
// returns its URL. Accounts that have not used their trial get one attached.
func (s *BillingService) StartCheckout(ctx context.Context, accountID int64, plan billing.PlanName) (string, error) {
	if _, err := billing.LookupPlan(plan); err != nil {
		return "", fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to load account: %w", err)
	}

	var trial int64
	if !acc.HasUsedTrial {
		trial = trialDays
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, string(plan), trial)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// FinalizeSubscription credits a completed checkout for a predefined plan.
func (s *BillingService) FinalizeSubscription(ctx context.Context, accountID int64, plan billing.PlanName, sessionID string) (*account.Account, *billing.Subscription, error) {
	terms, err := billing.LookupPlan(plan)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}
	return s.finalize(ctx, accountID, sessionID, plan, terms.Price, terms.Details, false)
}

// FinalizeCustomSubscription promotes the account's stored custom plan draft
// after its checkout completed. Terms come exclusively from the draft.
func (s *BillingService) FinalizeCustomSubscription(ctx context.Context, accountID int64, sessionID string) (*account.Account, *billing.Subscription, error) {
	draft, err := s.drafts.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load custom plan draft: %w", err)
	}

	current, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if current != nil && current.Plan == billing.PlanCustom {
		return nil, nil, xerrors.ErrDuplicateCustomPlan
	}

	return s.finalize(ctx, accountID, sessionID, billing.PlanCustom, draft.Price, draft.Details, true)
}

func (s *BillingService) finalize(ctx context.Context, accountID int64, sessionID string, plan billing.PlanName, price float64, details billing.PlanDetails, custom bool) (*account.Account, *billing.Subscription, error) {
	exists, err := s.subs.ExistsBySessionID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check checkout session: %w", err)
	}
	if exists {
		return nil, nil, xerrors.ErrAlreadyProcessed
	}

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load account: %w", err)
	}

	useTrial := !acc.HasUsedTrial
	if useTrial {
		price = 0
	}

	sess, err := s.provider.CheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess.SubscriptionID == "" || sess.CustomerID == "" {
		return nil, nil, fmt.Errorf("%w: checkout session %s is not complete", xerrors.ErrInvalidInput, sessionID)
	}

	state, err := s.provider.Subscription(ctx, sess.SubscriptionID)
	if err != nil {
		return nil, nil, err
	}

	sub := &billing.Subscription{
		AccountID:            accountID,
		Plan:                 plan,
		Price:                price,
		Details:              details,
		ExpiresAt:            state.PeriodEnd,
		StripeSessionID:      sessionID,
		StripeSubscriptionID: sess.SubscriptionID,
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.subs.CreateTx(ctx, tx, sub); err != nil {
			return err
		}
		if err := s.accounts.SetStripeCustomerIDTx(ctx, tx, accountID, sess.CustomerID); err != nil {
			return err
		}
		if useTrial {
			if err := s.accounts.MarkTrialUsedTx(ctx, tx, accountID); err != nil {
				return err
			}
		}
		if custom {
			if err := s.drafts.ClearPendingCheckoutURLTx(ctx, tx, accountID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Seed the usage counter; a concurrent or repeated seed is a no-op.
	if err := s.usage.Create(ctx, accountID, int(s.now().Month())); err != nil {
		s.logger.Warn("failed to seed usage counter", zap.Int64("account_id", accountID), zap.Error(err))
	}

	acc.StripeCustomerID.String = sess.CustomerID
	acc.StripeCustomerID.Valid = true
	if useTrial {
		acc.HasUsedTrial = true
	}

	s.logger.Info("subscription finalized",
		zap.Int64("account_id", accountID),
		zap.String("plan", string(plan)),
		zap.Float64("price", sub.Price),
		zap.Bool("trial", useTrial))
	return acc, sub, nil
}

// ChangePlan repoints the account's active subscription at a different
// predefined plan. The provider is modified and the prorated difference
// invoiced first; only then is the same local row rewritten. Row identity
// and the provider subscription reference never change.
func (s *BillingService) ChangePlan(ctx context.Context, accountID int64, newPlan billing.PlanName) (*billing.Subscription, error) {
	terms, err := billing.LookupPlan(newPlan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}

	latest, err := s.subs.FindLatestByAccount(ctx, accountID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if latest.Canceled() {
		return nil, xerrors.ErrInvalidPlanTransition
	}

	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, xerrors.ErrNoActiveSubscription
	}

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !acc.StripeCustomerID.Valid {
		return nil, xerrors.ErrNoActiveSubscription
	}

	if err := s.provider.ChangeSubscriptionPlan(ctx, sub.StripeSubscriptionID, acc.StripeCustomerID.String, string(newPlan)); err != nil {
		return nil, err
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		return s.subs.UpdatePlanTx(ctx, tx, sub.ID, newPlan, terms.Price, terms.Details, sub.ExpiresAt)
	})
	if err != nil {
		return nil, err
	}

	sub.Plan = newPlan
	sub.Price = terms.Price
	sub.Details = terms.Details

	s.logger.Info("subscription plan changed",
		zap.Int64("account_id", accountID),
		zap.Int64("subscription_id", sub.ID),
		zap.String("plan", string(newPlan)))
	return sub, nil
}

// CancelSubscription terminates the account's active subscription with
// proration and deletes the provider customer, severing the stored payment
// method. Locally the row is only stamped canceled; resuming means a brand
// new subscription through checkout.
func (s *BillingService) CancelSubscription(ctx context.Context, accountID int64) error {
	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return err
	}
	if sub == nil {
		return xerrors.ErrNoActiveSubscription
	}

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	if err := s.provider.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
		return err
	}
	if acc.StripeCustomerID.Valid {
		if err := s.provider.DeleteCustomer(ctx, acc.StripeCustomerID.String); err != nil {
			return err
		}
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.subs.SetCanceledTx(ctx, tx, sub.ID, s.now().UTC()); err != nil {
			return err
		}
		return s.accounts.SetStripeCustomerIDTx(ctx, tx, accountID, "")
	})
	if err != nil {
		return err
	}

	s.logger.Info("subscription canceled",
		zap.Int64("account_id", accountID),
		zap.Int64("subscription_id", sub.ID))
	return nil
}

// LatestInvoice returns the account's most recent provider invoice.
func (s *BillingService) LatestInvoice(ctx context.Context, accountID int64) (*billing.InvoiceView, error) {
	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, xerrors.ErrNoActiveSubscription
	}

	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !acc.StripeCustomerID.Valid {
		return nil, xerrors.ErrNoActiveSubscription
	}

	inv, err := s.provider.LatestInvoice(ctx, acc.StripeCustomerID.String)
	if err != nil {
		return nil, err
	}

	return &billing.InvoiceView{
		InvoiceID:        inv.ID,
		AmountDue:        inv.AmountDue,
		AmountPaid:       inv.AmountPaid,
		Currency:         inv.Currency,
		Status:           inv.Status,
		InvoicePDF:       inv.InvoicePDF,
		HostedInvoiceURL: inv.HostedInvoiceURL,
		CreatedAt:        inv.CreatedAt,
		DueDate:          inv.DueDate,
		Description:      inv.Description,
		SubscriptionID:   sub.StripeSubscriptionID,
	}, nil
}
