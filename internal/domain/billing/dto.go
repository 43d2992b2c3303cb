// internal/domain/billing/dto.go
package billing

type StartCheckoutRequest struct {
	PlanName PlanName `json:"plan_name" binding:"required"`
}

type FinalizeSubscriptionRequest struct {
	CheckoutSessionID string   `json:"checkout_session_id" binding:"required"`
	PlanName          PlanName `json:"plan_name" binding:"required"`
}

type FinalizeCustomSubscriptionRequest struct {
	CheckoutSessionID string `json:"checkout_session_id" binding:"required"`
}

type ChangePlanRequest struct {
	NewPlan PlanName `json:"new_plan" binding:"required"`
}

type QuoteCustomPlanRequest struct {
	AccountID int64       `json:"account_id" binding:"required"`
	Price     float64     `json:"price" binding:"min=0"`
	Days      int         `json:"days"`
	Details   PlanDetails `json:"plan_details" binding:"required"`
}
