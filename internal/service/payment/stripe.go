// internal/service/payment/stripe.go
package payment

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/invoice"
	"github.com/stripe/stripe-go/v82/price"
	"github.com/stripe/stripe-go/v82/product"
	"github.com/stripe/stripe-go/v82/subscription"

	xerrors "shiftcare-service/internal/pkg/errors"
)

// PlanPriceIDs maps plan names to Stripe price IDs. These must match the
// recurring monthly price objects configured in the Stripe dashboard.
type PlanPriceIDs map[string]string

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	planPriceIDs PlanPriceIDs
	webServerURL string // success/cancel redirect base
}

// NewStripeProvider configures the global Stripe client with the given API
// key and returns a provider using the plan -> price ID mapping.
func NewStripeProvider(apiKey, webServerURL string, planPriceIDs PlanPriceIDs) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{
		planPriceIDs: planPriceIDs,
		webServerURL: webServerURL,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, plan string, trialDays int64) (*CheckoutSession, error) {
	priceID, ok := p.planPriceIDs[plan]
	if !ok {
		return nil, fmt.Errorf("no stripe price ID configured for plan %q", plan)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.webServerURL + "/dashboard?chkout_session_id={CHECKOUT_SESSION_ID}&plan=" + plan),
		CancelURL:  stripe.String(p.webServerURL + "/dashboard"),
	}
	if trialDays > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(trialDays),
		}
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, xerrors.NewProviderError("create checkout session", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProvider) CreateCustomQuote(ctx context.Context, accountID int64, planPrice float64) (*CustomQuote, error) {
	prodParams := &stripe.ProductParams{
		Name:        stripe.String(fmt.Sprintf("Custom Plan for Account %d", accountID)),
		Description: stripe.String("Negotiated custom subscription plan."),
		Metadata:    map[string]string{"account_id": fmt.Sprintf("%d", accountID)},
	}
	prodParams.Context = ctx
	prod, err := product.New(prodParams)
	if err != nil {
		return nil, xerrors.NewProviderError("create custom product", err)
	}

	priceParams := &stripe.PriceParams{
		UnitAmount: stripe.Int64(int64(planPrice * 100)),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		Product:   stripe.String(prod.ID),
		LookupKey: stripe.String(fmt.Sprintf("custom_%d", accountID)),
	}
	priceParams.Context = ctx
	pr, err := price.New(priceParams)
	if err != nil {
		return nil, xerrors.NewProviderError("create custom price", err)
	}

	sessParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(pr.ID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.webServerURL + "/dashboard?chkout_session_id={CHECKOUT_SESSION_ID}&plan=custom"),
		CancelURL:  stripe.String(p.webServerURL + "/dashboard"),
	}
	sessParams.Context = ctx
	sess, err := checkoutsession.New(sessParams)
	if err != nil {
		return nil, xerrors.NewProviderError("create custom checkout session", err)
	}

	return &CustomQuote{
		ProductID:   prod.ID,
		PriceID:     pr.ID,
		CheckoutURL: sess.URL,
		SessionID:   sess.ID,
	}, nil
}

func (p *StripeProvider) CheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, xerrors.NewProviderError("retrieve checkout session", err)
	}

	out := &CheckoutSession{ID: sess.ID, URL: sess.URL}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		out.SubscriptionID = sess.Subscription.ID
	}
	return out, nil
}

func (p *StripeProvider) Subscription(ctx context.Context, subscriptionID string) (*SubscriptionState, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, xerrors.NewProviderError("retrieve subscription", err)
	}
	return subscriptionState(sub), nil
}

func (p *StripeProvider) ChangeSubscriptionPlan(ctx context.Context, subscriptionID, customerID, plan string) error {
	priceID, ok := p.planPriceIDs[plan]
	if !ok {
		return fmt.Errorf("no stripe price ID configured for plan %q", plan)
	}

	getParams := &stripe.SubscriptionParams{}
	getParams.Context = ctx
	sub, err := subscription.Get(subscriptionID, getParams)
	if err != nil {
		return xerrors.NewProviderError("retrieve subscription", err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return xerrors.NewProviderError("change subscription plan", fmt.Errorf("subscription %s has no items", subscriptionID))
	}
	itemID := sub.Items.Data[0].ID

	updParams := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{ID: stripe.String(itemID), Price: stripe.String(priceID)},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	updParams.Context = ctx
	if _, err := subscription.Update(subscriptionID, updParams); err != nil {
		return xerrors.NewProviderError("modify subscription", err)
	}

	// Bill the prorated delta immediately instead of waiting for the next
	// cycle's invoice.
	invParams := &stripe.InvoiceParams{Customer: stripe.String(customerID)}
	invParams.Context = ctx
	inv, err := invoice.New(invParams)
	if err != nil {
		return xerrors.NewProviderError("create proration invoice", err)
	}

	finParams := &stripe.InvoiceFinalizeInvoiceParams{}
	finParams.Context = ctx
	if _, err := invoice.FinalizeInvoice(inv.ID, finParams); err != nil {
		return xerrors.NewProviderError("finalize proration invoice", err)
	}

	payParams := &stripe.InvoicePayParams{}
	payParams.Context = ctx
	if _, err := invoice.Pay(inv.ID, payParams); err != nil {
		return xerrors.NewProviderError("collect proration invoice", err)
	}
	return nil
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{
		Prorate: stripe.Bool(true),
	}
	params.Context = ctx

	if _, err := subscription.Cancel(subscriptionID, params); err != nil {
		return xerrors.NewProviderError("cancel subscription", err)
	}
	return nil
}

func (p *StripeProvider) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := customer.Del(customerID, params); err != nil {
		return xerrors.NewProviderError("delete customer", err)
	}
	return nil
}

func (p *StripeProvider) LatestInvoice(ctx context.Context, customerID string) (*Invoice, error) {
	params := &stripe.InvoiceListParams{Customer: stripe.String(customerID)}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	iter := invoice.List(params)
	for iter.Next() {
		return invoiceView(iter.Invoice()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, xerrors.NewProviderError("list invoices", err)
	}
	return nil, xerrors.ErrNotFound
}

func subscriptionState(sub *stripe.Subscription) *SubscriptionState {
	state := &SubscriptionState{
		ID:     sub.ID,
		Status: string(sub.Status),
	}
	// The current period boundary lives on the priced item.
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		state.PeriodEnd = time.Unix(sub.Items.Data[0].CurrentPeriodEnd, 0).UTC()
	}
	return state
}

func invoiceView(inv *stripe.Invoice) *Invoice {
	out := &Invoice{
		ID:               inv.ID,
		AmountDue:        float64(inv.AmountDue) / 100,
		AmountPaid:       float64(inv.AmountPaid) / 100,
		Currency:         string(inv.Currency),
		Status:           string(inv.Status),
		InvoicePDF:       inv.InvoicePDF,
		HostedInvoiceURL: inv.HostedInvoiceURL,
		CreatedAt:        time.Unix(inv.Created, 0).UTC(),
		Description:      inv.Description,
	}
	if inv.DueDate > 0 {
		due := time.Unix(inv.DueDate, 0).UTC()
		out.DueDate = &due
	}
	return out
}
