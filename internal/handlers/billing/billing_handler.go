// internal/handlers/billing/billing_handler.go
package billing

import (
	"net/http"

	"shiftcare-service/internal/domain/billing"
	"shiftcare-service/internal/middleware"
	"shiftcare-service/internal/pkg/response"
	service "shiftcare-service/internal/service/billing"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	billingService *service.BillingService
}

func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Catalog lists the published plans.
func (h *BillingHandler) Catalog(c *gin.Context) {
	response.Success(c, http.StatusOK, "plans retrieved", billing.PredefinedPlans())
}

// ActiveSubscription returns the account's current subscription, if any.
func (h *BillingHandler) ActiveSubscription(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	sub, err := h.billingService.ResolveActiveSubscription(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if sub == nil {
		response.Success(c, http.StatusOK, "no active subscription", nil)
		return
	}
	response.Success(c, http.StatusOK, "active subscription retrieved", sub)
}

// PlanDetails returns the limits and features of the active plan.
func (h *BillingHandler) PlanDetails(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	details, err := h.billingService.ActivePlanDetails(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plan details retrieved", details)
}

// StartCheckout opens a provider checkout session for a catalog plan.
func (h *BillingHandler) StartCheckout(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req billing.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	url, err := h.billingService.StartCheckout(c.Request.Context(), accountID, req.PlanName)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "checkout session created", gin.H{"checkout_url": url})
}

// FinalizeSubscription records a completed checkout for a catalog plan.
func (h *BillingHandler) FinalizeSubscription(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req billing.FinalizeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	acc, sub, err := h.billingService.FinalizeSubscription(c.Request.Context(), accountID, req.PlanName, req.CheckoutSessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "subscription activated", gin.H{
		"account":      acc.View(false),
		"subscription": sub,
	})
}

// FinalizeCustomSubscription records a completed checkout for a quoted
// custom plan.
func (h *BillingHandler) FinalizeCustomSubscription(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req billing.FinalizeCustomSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	acc, sub, err := h.billingService.FinalizeCustomSubscription(c.Request.Context(), accountID, req.CheckoutSessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "custom subscription activated", gin.H{
		"account":      acc.View(false),
		"subscription": sub,
	})
}

// QuoteCustomPlan creates a provider-backed custom plan quote for an
// account. Operator only.
func (h *BillingHandler) QuoteCustomPlan(c *gin.Context) {
	var req billing.QuoteCustomPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	url, draft, err := h.billingService.QuoteCustomPlan(c.Request.Context(), req.AccountID, req.Price, req.Days, req.Details)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "custom plan quoted", gin.H{
		"checkout_url": url,
		"draft":        draft,
	})
}

// PendingCustomCheckout returns the stored checkout URL of an unfinalized
// custom plan quote, empty when none is pending.
func (h *BillingHandler) PendingCustomCheckout(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	url, err := h.billingService.PendingCheckoutURL(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "pending checkout retrieved", gin.H{"checkout_url": url})
}

// ChangePlan moves the subscription to another catalog plan with provider
// side proration.
func (h *BillingHandler) ChangePlan(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req billing.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	sub, err := h.billingService.ChangePlan(c.Request.Context(), accountID, req.NewPlan)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plan changed", sub)
}

// CancelSubscription cancels the active subscription with proration.
func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	if err := h.billingService.CancelSubscription(c.Request.Context(), accountID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "subscription canceled", nil)
}

// LatestInvoice returns the most recent provider invoice.
func (h *BillingHandler) LatestInvoice(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	inv, err := h.billingService.LatestInvoice(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "invoice retrieved", inv)
}

// ScheduleRequests returns the current monthly counter.
func (h *BillingHandler) ScheduleRequests(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	count, err := h.billingService.ScheduleRequestCount(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedule requests retrieved", gin.H{"schedule_requests": count})
}
