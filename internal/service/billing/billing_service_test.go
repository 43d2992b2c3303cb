// internal/service/billing/billing_service_test.go
package billing

import (
	"context"
	"testing"
	"time"

	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/service/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeSubscriptionTrialOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, false)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(7*24*time.Hour))

	acc, sub, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanStandard, "cs_1")
	require.NoError(t, err)

	assert.Equal(t, float64(0), sub.Price, "first subscription rides the trial")
	assert.True(t, acc.HasUsedTrial)
	assert.True(t, env.accounts.byID[1].HasUsedTrial, "trial flag persisted")
	assert.Equal(t, billing.PlanStandard, sub.Plan)
	assert.Equal(t, "sub_1", sub.StripeSubscriptionID)
	assert.Equal(t, env.clock.Add(7*24*time.Hour), sub.ExpiresAt)
	assert.Equal(t, "cus_1", env.accounts.byID[1].StripeCustomerID.String)

	// A later subscription for the same account charges full price.
	env.subs.rows = nil
	env.addCheckout("cs_2", "sub_2", "cus_2", env.clock.Add(30*24*time.Hour))
	_, sub2, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanStandard, "cs_2")
	require.NoError(t, err)
	assert.Equal(t, 49.99, sub2.Price)
}

func TestFinalizeSubscriptionIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(30*24*time.Hour))

	_, _, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	require.NoError(t, err)

	_, _, err = env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	assert.ErrorIs(t, err, xerrors.ErrAlreadyProcessed)
	assert.Len(t, env.subs.rows, 1, "replay must not create a second row")
}

func TestFinalizeSubscriptionUnknownPlan(t *testing.T) {
	env := newTestEnv()
	env.addAccount(1, true)

	_, _, err := env.svc.FinalizeSubscription(context.Background(), 1, "platinum", "cs_1")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestStartCheckoutTrialEligibility(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, false)
	env.addAccount(2, true)

	url, err := env.svc.StartCheckout(ctx, 1, billing.PlanPremium)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, int64(trialDays), env.provider.lastTrialDays)

	_, err = env.svc.StartCheckout(ctx, 2, billing.PlanPremium)
	require.NoError(t, err)
	assert.Zero(t, env.provider.lastTrialDays, "used trial means no trial period")
}

func TestResolveActiveSubscriptionFastPath(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(10*24*time.Hour))
	_, _, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	require.NoError(t, err)

	// Break the provider record; an unexpired row must not trigger a lookup.
	delete(env.provider.subs, "sub_1")

	sub, err := env.svc.ResolveActiveSubscription(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, billing.PlanBasic, sub.Plan)
}

func TestResolveActiveSubscriptionReconciliation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(24*time.Hour))
	_, _, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	require.NoError(t, err)

	// Locally expired, provider still active: expiry extends to period end.
	env.clock = env.clock.Add(48 * time.Hour)
	newEnd := env.clock.Add(29 * 24 * time.Hour)
	env.provider.subs["sub_1"].PeriodEnd = newEnd

	sub, err := env.svc.ResolveActiveSubscription(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, newEnd, sub.ExpiresAt)
	assert.Equal(t, newEnd, env.subs.rows[0].ExpiresAt, "extension persisted")

	// Locally expired, provider terminal: nil, stored row untouched.
	env.clock = newEnd.Add(time.Hour)
	env.provider.subs["sub_1"].Status = payment.StatusCanceled

	sub, err = env.svc.ResolveActiveSubscription(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Equal(t, newEnd, env.subs.rows[0].ExpiresAt, "terminal status leaves history alone")
	assert.False(t, env.subs.rows[0].Canceled())
}

func TestResolveActiveSubscriptionNone(t *testing.T) {
	env := newTestEnv()
	env.addAccount(1, true)

	sub, err := env.svc.ResolveActiveSubscription(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestChangePlanPreservesIdentity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(30*24*time.Hour))
	_, created, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	require.NoError(t, err)

	changed, err := env.svc.ChangePlan(ctx, 1, billing.PlanPremium)
	require.NoError(t, err)

	assert.Equal(t, created.ID, changed.ID, "same row")
	assert.Equal(t, "sub_1", changed.StripeSubscriptionID, "same provider subscription")
	assert.Equal(t, billing.PlanPremium, changed.Plan)
	assert.Equal(t, 99.99, changed.Price)
	assert.Equal(t, 999, changed.Details.MaxEmployees)
	assert.Len(t, env.subs.rows, 1, "no second row")
	assert.Equal(t, 1, env.provider.changeCalls)
}

func TestChangePlanWithoutSubscription(t *testing.T) {
	env := newTestEnv()
	env.addAccount(1, true)

	_, err := env.svc.ChangePlan(context.Background(), 1, billing.PlanPremium)
	assert.ErrorIs(t, err, xerrors.ErrNoActiveSubscription)
}

func TestChangePlanOnCanceledSubscription(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(30*24*time.Hour))
	_, _, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	require.NoError(t, err)
	require.NoError(t, env.svc.CancelSubscription(ctx, 1))

	_, err = env.svc.ChangePlan(ctx, 1, billing.PlanPremium)
	assert.ErrorIs(t, err, xerrors.ErrInvalidPlanTransition)
}

func TestCancelSubscriptionIsTerminal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(30*24*time.Hour))
	_, _, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanBasic, "cs_1")
	require.NoError(t, err)

	require.NoError(t, env.svc.CancelSubscription(ctx, 1))

	assert.Equal(t, 1, env.provider.cancelCalls)
	assert.Equal(t, []string{"cus_1"}, env.provider.customerDeletes, "payment method severed")
	assert.False(t, env.accounts.byID[1].StripeCustomerID.Valid, "customer ref cleared")
	assert.True(t, env.subs.rows[0].Canceled())

	// Still inside the paid period, yet resolution returns nothing.
	sub, err := env.svc.ResolveActiveSubscription(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, sub)

	assert.ErrorIs(t, env.svc.CancelSubscription(ctx, 1), xerrors.ErrNoActiveSubscription)
}

func TestLatestInvoice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)
	env.addCheckout("cs_1", "sub_1", "cus_1", env.clock.Add(30*24*time.Hour))
	_, _, err := env.svc.FinalizeSubscription(ctx, 1, billing.PlanStandard, "cs_1")
	require.NoError(t, err)

	env.provider.invoice = &payment.Invoice{
		ID: "in_1", AmountDue: 49.99, AmountPaid: 49.99,
		Currency: "usd", Status: "paid", CreatedAt: env.clock,
	}

	view, err := env.svc.LatestInvoice(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "in_1", view.InvoiceID)
	assert.Equal(t, 49.99, view.AmountPaid)
	assert.Equal(t, "sub_1", view.SubscriptionID)
}

func TestLatestInvoiceWithoutSubscription(t *testing.T) {
	env := newTestEnv()
	env.addAccount(1, true)

	_, err := env.svc.LatestInvoice(context.Background(), 1)
	assert.ErrorIs(t, err, xerrors.ErrNoActiveSubscription)
}
