// internal/app/router.go
package app

import (
	authHandler "shiftcare-service/internal/handlers/auth"
	billingHandler "shiftcare-service/internal/handlers/billing"
	contactHandler "shiftcare-service/internal/handlers/contact"
	scheduleHandler "shiftcare-service/internal/handlers/schedule"
	settingsHandler "shiftcare-service/internal/handlers/settings"
	workforceHandler "shiftcare-service/internal/handlers/workforce"
	"shiftcare-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	BillingHandler   *billingHandler.BillingHandler
	WorkforceHandler *workforceHandler.WorkforceHandler
	ScheduleHandler  *scheduleHandler.ScheduleHandler
	SettingsHandler  *settingsHandler.SettingsHandler
	ContactHandler   *contactHandler.ContactHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.POST("/refresh", h.AuthHandler.Refresh)
		authPublic.GET("/verify-email", h.AuthHandler.VerifyEmail)
		authPublic.POST("/request-password-reset", h.AuthHandler.RequestPasswordReset)
		authPublic.POST("/reset-password", h.AuthHandler.ResetPassword)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
		authProtected.PUT("/change-email", h.AuthHandler.ChangeEmail)
		authProtected.PUT("/change-password", h.AuthHandler.ChangePassword)
		authProtected.DELETE("/account", h.AuthHandler.DeleteAccount)
	}

	// ==================== Billing ====================
	api.GET("/plans", h.BillingHandler.Catalog)

	sub := api.Group("/sub")
	sub.Use(h.AuthMiddleware.Auth())
	{
		sub.GET("", h.BillingHandler.ActiveSubscription)
		sub.GET("/plan", h.BillingHandler.PlanDetails)
		sub.GET("/schedule_requests", h.BillingHandler.ScheduleRequests)
		sub.GET("/invoice", h.BillingHandler.LatestInvoice)
		sub.GET("/custom/pending", h.BillingHandler.PendingCustomCheckout)
		sub.POST("/checkout", h.BillingHandler.StartCheckout)
		sub.POST("/finalize", h.BillingHandler.FinalizeSubscription)
		sub.POST("/finalize-custom", h.BillingHandler.FinalizeCustomSubscription)
		sub.PUT("/plan", h.BillingHandler.ChangePlan)
		sub.DELETE("", h.BillingHandler.CancelSubscription)
	}

	// Operator-only custom plan negotiation.
	operator := api.Group("/operator")
	operator.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.OperatorOnly())
	{
		operator.POST("/custom-plans", h.BillingHandler.QuoteCustomPlan)
	}

	// ==================== Workforce ====================
	employees := api.Group("/employees")
	employees.Use(h.AuthMiddleware.Auth())
	{
		employees.POST("", h.WorkforceHandler.CreateEmployee)
		employees.GET("", h.WorkforceHandler.ListEmployees)
		employees.GET("/:id", h.WorkforceHandler.GetEmployee)
		employees.PUT("/:id", h.WorkforceHandler.UpdateEmployee)
		employees.DELETE("/:id", h.WorkforceHandler.DeleteEmployee)
	}

	shifts := api.Group("/shifts")
	shifts.Use(h.AuthMiddleware.Auth())
	{
		shifts.POST("", h.WorkforceHandler.CreateShift)
		shifts.GET("", h.WorkforceHandler.ListShifts)
		shifts.GET("/:id", h.WorkforceHandler.GetShift)
		shifts.PUT("/:id", h.WorkforceHandler.UpdateShift)
		shifts.DELETE("/:id", h.WorkforceHandler.DeleteShift)
	}

	holidays := api.Group("/holidays")
	holidays.Use(h.AuthMiddleware.Auth())
	{
		holidays.POST("", h.WorkforceHandler.CreateHoliday)
		holidays.GET("", h.WorkforceHandler.ListHolidays)
		holidays.GET("/:id", h.WorkforceHandler.GetHoliday)
		holidays.PUT("/:id", h.WorkforceHandler.UpdateHoliday)
		holidays.DELETE("/:id", h.WorkforceHandler.DeleteHoliday)
	}

	// ==================== Schedules ====================
	schedules := api.Group("/schedules")
	schedules.Use(h.AuthMiddleware.Auth())
	{
		schedules.POST("/generate", h.ScheduleHandler.Generate)
		schedules.POST("", h.ScheduleHandler.Create)
		schedules.GET("", h.ScheduleHandler.List)
		schedules.GET("/month", h.ScheduleHandler.GetByMonth)
		schedules.GET("/:id", h.ScheduleHandler.Get)
		schedules.PUT("/:id", h.ScheduleHandler.Update)
		schedules.DELETE("/:id", h.ScheduleHandler.Delete)
	}

	// ==================== Settings ====================
	settings := api.Group("/settings")
	settings.Use(h.AuthMiddleware.Auth())
	{
		settings.GET("", h.SettingsHandler.Get)
		settings.PATCH("", h.SettingsHandler.Update)
	}

	// ==================== Contact ====================
	api.POST("/contact", h.ContactHandler.Submit)
}
