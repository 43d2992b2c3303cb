// internal/service/billing/fakes_test.go
package billing

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"shiftcare-service/internal/domain/account"
	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/service/payment"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	byID map[int64]*account.Account
}

func (f *fakeAccounts) FindByID(_ context.Context, id int64) (*account.Account, error) {
	acc, ok := f.byID[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeAccounts) MarkTrialUsedTx(_ context.Context, _ pgx.Tx, id int64) error {
	acc, ok := f.byID[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	acc.HasUsedTrial = true
	return nil
}

func (f *fakeAccounts) SetStripeCustomerIDTx(_ context.Context, _ pgx.Tx, id int64, customerID string) error {
	acc, ok := f.byID[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	acc.StripeCustomerID = sql.NullString{String: customerID, Valid: customerID != ""}
	return nil
}

type fakeSubs struct {
	rows   []*billing.Subscription
	nextID int64
}

func (f *fakeSubs) CreateTx(_ context.Context, _ pgx.Tx, sub *billing.Subscription) error {
	for _, r := range f.rows {
		if r.StripeSessionID == sub.StripeSessionID {
			return xerrors.ErrAlreadyProcessed
		}
	}
	f.nextID++
	sub.ID = f.nextID
	sub.CreatedAt = time.Now()
	cp := *sub
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeSubs) FindLatestByAccount(_ context.Context, accountID int64) (*billing.Subscription, error) {
	var matches []*billing.Subscription
	for _, r := range f.rows {
		if r.AccountID == accountID {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, xerrors.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ExpiresAt.After(matches[j].ExpiresAt)
	})
	cp := *matches[0]
	return &cp, nil
}

func (f *fakeSubs) ExistsBySessionID(_ context.Context, sessionID string) (bool, error) {
	for _, r := range f.rows {
		if r.StripeSessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubs) UpdateExpiry(_ context.Context, id int64, expiresAt time.Time) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.ExpiresAt = expiresAt
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (f *fakeSubs) UpdatePlanTx(_ context.Context, _ pgx.Tx, id int64, plan billing.PlanName, price float64, details billing.PlanDetails, expiresAt time.Time) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.Plan = plan
			r.Price = price
			r.Details = details
			r.ExpiresAt = expiresAt
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (f *fakeSubs) SetCanceledTx(_ context.Context, _ pgx.Tx, id int64, at time.Time) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.CanceledAt = sql.NullTime{Time: at, Valid: true}
			return nil
		}
	}
	return xerrors.ErrNotFound
}

type fakeDrafts struct {
	byAccount map[int64]*billing.CustomPlanDraft
}

func (f *fakeDrafts) Upsert(_ context.Context, draft *billing.CustomPlanDraft) error {
	cp := *draft
	f.byAccount[draft.AccountID] = &cp
	return nil
}

func (f *fakeDrafts) FindByAccount(_ context.Context, accountID int64) (*billing.CustomPlanDraft, error) {
	draft, ok := f.byAccount[accountID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *draft
	return &cp, nil
}

func (f *fakeDrafts) ClearPendingCheckoutURLTx(_ context.Context, _ pgx.Tx, accountID int64) error {
	draft, ok := f.byAccount[accountID]
	if !ok {
		return xerrors.ErrNotFound
	}
	draft.PendingCheckoutURL = sql.NullString{}
	return nil
}

type fakeUsage struct {
	byAccount map[int64]*billing.ScheduleRequests
}

func (f *fakeUsage) Create(_ context.Context, accountID int64, month int) error {
	if _, ok := f.byAccount[accountID]; !ok {
		f.byAccount[accountID] = &billing.ScheduleRequests{AccountID: accountID, Month: month}
	}
	return nil
}

func (f *fakeUsage) Get(_ context.Context, accountID int64) (*billing.ScheduleRequests, error) {
	sr, ok := f.byAccount[accountID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *sr
	return &cp, nil
}

func (f *fakeUsage) Increment(_ context.Context, _ pgx.Tx, accountID int64, currentMonth int) (*billing.ScheduleRequests, error) {
	sr, ok := f.byAccount[accountID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if sr.Month != currentMonth {
		sr.Month = currentMonth
		sr.NumRequests = 1
	} else {
		sr.NumRequests++
	}
	cp := *sr
	return &cp, nil
}

type fakeCounter struct {
	count int
}

func (f *fakeCounter) CountByAccount(context.Context, int64) (int, error) {
	return f.count, nil
}

type fakeTx struct{}

func (fakeTx) InTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeProvider struct {
	sessions map[string]*payment.CheckoutSession
	subs     map[string]*payment.SubscriptionState

	checkoutCalls   int
	lastTrialDays   int64
	changeCalls     int
	cancelCalls     int
	customerDeletes []string
	quoteCalls      int
	invoice         *payment.Invoice
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, plan string, trialDays int64) (*payment.CheckoutSession, error) {
	f.checkoutCalls++
	f.lastTrialDays = trialDays
	return &payment.CheckoutSession{
		ID:  fmt.Sprintf("cs_%s_%d", plan, f.checkoutCalls),
		URL: "https://checkout.example/" + plan,
	}, nil
}

func (f *fakeProvider) CreateCustomQuote(_ context.Context, accountID int64, _ float64) (*payment.CustomQuote, error) {
	f.quoteCalls++
	return &payment.CustomQuote{
		ProductID:   fmt.Sprintf("prod_%d_%d", accountID, f.quoteCalls),
		PriceID:     fmt.Sprintf("price_%d_%d", accountID, f.quoteCalls),
		CheckoutURL: fmt.Sprintf("https://checkout.example/custom/%d", f.quoteCalls),
		SessionID:   fmt.Sprintf("cs_custom_%d", f.quoteCalls),
	}, nil
}

func (f *fakeProvider) CheckoutSession(_ context.Context, sessionID string) (*payment.CheckoutSession, error) {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil, xerrors.NewProviderError("retrieve checkout session", xerrors.ErrNotFound)
	}
	return sess, nil
}

func (f *fakeProvider) Subscription(_ context.Context, subscriptionID string) (*payment.SubscriptionState, error) {
	state, ok := f.subs[subscriptionID]
	if !ok {
		return nil, xerrors.NewProviderError("retrieve subscription", xerrors.ErrNotFound)
	}
	return state, nil
}

func (f *fakeProvider) ChangeSubscriptionPlan(context.Context, string, string, string) error {
	f.changeCalls++
	return nil
}

func (f *fakeProvider) CancelSubscription(context.Context, string) error {
	f.cancelCalls++
	return nil
}

func (f *fakeProvider) DeleteCustomer(_ context.Context, customerID string) error {
	f.customerDeletes = append(f.customerDeletes, customerID)
	return nil
}

func (f *fakeProvider) LatestInvoice(context.Context, string) (*payment.Invoice, error) {
	if f.invoice == nil {
		return nil, xerrors.ErrNotFound
	}
	return f.invoice, nil
}

type testEnv struct {
	svc       *BillingService
	accounts  *fakeAccounts
	subs      *fakeSubs
	drafts    *fakeDrafts
	usage     *fakeUsage
	employees *fakeCounter
	shifts    *fakeCounter
	provider  *fakeProvider
	clock     time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		accounts:  &fakeAccounts{byID: map[int64]*account.Account{}},
		subs:      &fakeSubs{},
		drafts:    &fakeDrafts{byAccount: map[int64]*billing.CustomPlanDraft{}},
		usage:     &fakeUsage{byAccount: map[int64]*billing.ScheduleRequests{}},
		employees: &fakeCounter{},
		shifts:    &fakeCounter{},
		provider:  &fakeProvider{sessions: map[string]*payment.CheckoutSession{}, subs: map[string]*payment.SubscriptionState{}},
		clock:     time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewBillingService(
		env.accounts, env.subs, env.drafts, env.usage,
		env.employees, env.shifts, env.provider, fakeTx{}, zap.NewNop(),
	)
	env.svc.now = func() time.Time { return env.clock }
	return env
}

func (e *testEnv) addAccount(id int64, usedTrial bool) *account.Account {
	acc := &account.Account{ID: id, Email: fmt.Sprintf("acc%d@test.com", id), HasUsedTrial: usedTrial}
	e.accounts.byID[id] = acc
	return acc
}

// addCheckout registers a completed provider checkout backed by a usable
// subscription whose period ends at the given time.
func (e *testEnv) addCheckout(sessionID, subID, customerID string, periodEnd time.Time) {
	e.provider.sessions[sessionID] = &payment.CheckoutSession{
		ID: sessionID, CustomerID: customerID, SubscriptionID: subID,
	}
	e.provider.subs[subID] = &payment.SubscriptionState{
		ID: subID, Status: payment.StatusActive, PeriodEnd: periodEnd,
	}
}
