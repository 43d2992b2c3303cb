// internal/service/billing/custom_test.go
package billing

import (
	"context"
	"testing"
	"time"

	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCustomPlanUpsert(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)

	details := billing.PlanDetails{MaxEmployees: 50, MaxShiftTypes: 5, MaxMonthlyRequests: 100}

	url1, draft1, err := env.svc.QuoteCustomPlan(ctx, 1, 150, 30, details)
	require.NoError(t, err)
	assert.NotEmpty(t, url1)
	assert.Equal(t, float64(150), draft1.Price)

	// Re-quoting overwrites the single draft row with the latest terms.
	url2, draft2, err := env.svc.QuoteCustomPlan(ctx, 1, 200, 60, details)
	require.NoError(t, err)
	assert.NotEqual(t, url1, url2)
	assert.Len(t, env.drafts.byAccount, 1)
	assert.Equal(t, float64(200), env.drafts.byAccount[1].Price)
	assert.Equal(t, draft2.StripePriceID, env.drafts.byAccount[1].StripePriceID)
}

func TestPendingCheckoutURL(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)

	url, err := env.svc.PendingCheckoutURL(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, url, "no draft means no pending checkout")

	quoted, _, err := env.svc.QuoteCustomPlan(ctx, 1, 150, 30, billing.PlanDetails{MaxEmployees: 50})
	require.NoError(t, err)

	url, err = env.svc.PendingCheckoutURL(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, quoted, url)
}

func TestFinalizeCustomSubscription(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)

	details := billing.PlanDetails{MaxEmployees: 50, MaxShiftTypes: 5, MaxMonthlyRequests: 100}
	_, _, err := env.svc.QuoteCustomPlan(ctx, 1, 150, 30, details)
	require.NoError(t, err)

	env.addCheckout("cs_custom_done", "sub_c1", "cus_c1", env.clock.Add(30*24*time.Hour))

	acc, sub, err := env.svc.FinalizeCustomSubscription(ctx, 1, "cs_custom_done")
	require.NoError(t, err)

	assert.Equal(t, billing.PlanCustom, sub.Plan)
	assert.Equal(t, float64(150), sub.Price, "terms come from the draft, not the caller")
	assert.Equal(t, 50, sub.Details.MaxEmployees)
	assert.Equal(t, "cus_c1", acc.StripeCustomerID.String)
	assert.False(t, env.drafts.byAccount[1].PendingCheckoutURL.Valid, "promotion clears the checkout link")

	// Draft survives promotion as a historical record.
	assert.Equal(t, float64(150), env.drafts.byAccount[1].Price)
}

func TestFinalizeCustomSubscriptionWithoutDraft(t *testing.T) {
	env := newTestEnv()
	env.addAccount(1, true)

	_, _, err := env.svc.FinalizeCustomSubscription(context.Background(), 1, "cs_x")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestFinalizeCustomSubscriptionDuplicate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addAccount(1, true)

	details := billing.PlanDetails{MaxEmployees: 50, MaxShiftTypes: 5, MaxMonthlyRequests: 100}
	_, _, err := env.svc.QuoteCustomPlan(ctx, 1, 150, 30, details)
	require.NoError(t, err)

	env.addCheckout("cs_c1", "sub_c1", "cus_c1", env.clock.Add(30*24*time.Hour))
	_, _, err = env.svc.FinalizeCustomSubscription(ctx, 1, "cs_c1")
	require.NoError(t, err)

	// A second custom checkout while the first is still active is rejected.
	_, _, err = env.svc.QuoteCustomPlan(ctx, 1, 250, 30, details)
	require.NoError(t, err)
	env.addCheckout("cs_c2", "sub_c2", "cus_c2", env.clock.Add(30*24*time.Hour))

	_, _, err = env.svc.FinalizeCustomSubscription(ctx, 1, "cs_c2")
	assert.ErrorIs(t, err, xerrors.ErrDuplicateCustomPlan)
}
