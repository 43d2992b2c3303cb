// internal/handlers/schedule/schedule_handler.go
package schedule

import (
	"net/http"
	"strconv"

	"shiftcare-service/internal/domain/schedule"
	"shiftcare-service/internal/middleware"
	"shiftcare-service/internal/pkg/response"
	service "shiftcare-service/internal/service/schedule"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Generate runs the solver and returns the proposed grid without storing it.
func (h *ScheduleHandler) Generate(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req schedule.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	grid, err := h.scheduleService.Generate(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedule generated", gin.H{"schedule": grid})
}

// Create stores a rota for a month.
func (h *ScheduleHandler) Create(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req schedule.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	sched, err := h.scheduleService.Create(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "schedule created", sched)
}

// Get returns a stored rota by ID.
func (h *ScheduleHandler) Get(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid schedule id", err)
		return
	}

	sched, err := h.scheduleService.Get(c.Request.Context(), accountID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedule retrieved", sched)
}

// GetByMonth returns the stored rota for a month/year pair.
func (h *ScheduleHandler) GetByMonth(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.ValidationError(c, "invalid month", err)
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.ValidationError(c, "invalid year", err)
		return
	}

	sched, err := h.scheduleService.GetByMonth(c.Request.Context(), accountID, month, year)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedule retrieved", sched)
}

// List returns every stored rota of the account, newest first.
func (h *ScheduleHandler) List(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	schedules, err := h.scheduleService.List(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedules retrieved", schedules)
}

// Update replaces the stored grid.
func (h *ScheduleHandler) Update(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid schedule id", err)
		return
	}

	var req schedule.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	sched, err := h.scheduleService.Update(c.Request.Context(), accountID, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedule updated", sched)
}

// Delete removes a stored rota.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid schedule id", err)
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), accountID, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "schedule deleted", nil)
}
