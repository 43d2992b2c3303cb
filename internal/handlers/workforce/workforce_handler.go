// internal/handlers/workforce/workforce_handler.go
package workforce

import (
	"net/http"
	"strconv"

	"shiftcare-service/internal/domain/workforce"
	"shiftcare-service/internal/middleware"
	"shiftcare-service/internal/pkg/response"
	service "shiftcare-service/internal/service/workforce"

	"github.com/gin-gonic/gin"
)

type WorkforceHandler struct {
	workforceService *service.WorkforceService
}

func NewWorkforceHandler(workforceService *service.WorkforceService) *WorkforceHandler {
	return &WorkforceHandler{workforceService: workforceService}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(c, "invalid id", err)
		return 0, false
	}
	return id, true
}

// --- Employees ---

func (h *WorkforceHandler) CreateEmployee(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req workforce.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	emp, err := h.workforceService.CreateEmployee(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "employee created", emp)
}

func (h *WorkforceHandler) GetEmployee(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	emp, err := h.workforceService.GetEmployee(c.Request.Context(), accountID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "employee retrieved", emp)
}

func (h *WorkforceHandler) ListEmployees(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	employees, err := h.workforceService.ListEmployees(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "employees retrieved", employees)
}

func (h *WorkforceHandler) UpdateEmployee(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req workforce.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	emp, err := h.workforceService.UpdateEmployee(c.Request.Context(), accountID, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "employee updated", emp)
}

func (h *WorkforceHandler) DeleteEmployee(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.workforceService.DeleteEmployee(c.Request.Context(), accountID, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "employee deleted", nil)
}

// --- Shift types ---

func (h *WorkforceHandler) CreateShift(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req workforce.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	sh, err := h.workforceService.CreateShift(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "shift type created", sh)
}

func (h *WorkforceHandler) GetShift(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	sh, err := h.workforceService.GetShift(c.Request.Context(), accountID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "shift type retrieved", sh)
}

func (h *WorkforceHandler) ListShifts(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	shifts, err := h.workforceService.ListShifts(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "shift types retrieved", shifts)
}

func (h *WorkforceHandler) UpdateShift(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req workforce.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	sh, err := h.workforceService.UpdateShift(c.Request.Context(), accountID, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "shift type updated", sh)
}

func (h *WorkforceHandler) DeleteShift(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.workforceService.DeleteShift(c.Request.Context(), accountID, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "shift type deleted", nil)
}

// --- Holidays ---

func (h *WorkforceHandler) CreateHoliday(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req workforce.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	holiday, err := h.workforceService.CreateHoliday(c.Request.Context(), accountID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "holiday created", holiday)
}

func (h *WorkforceHandler) GetHoliday(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	holiday, err := h.workforceService.GetHoliday(c.Request.Context(), accountID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "holiday retrieved", holiday)
}

func (h *WorkforceHandler) ListHolidays(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	holidays, err := h.workforceService.ListHolidays(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "holidays retrieved", holidays)
}

func (h *WorkforceHandler) UpdateHoliday(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req workforce.UpdateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	holiday, err := h.workforceService.UpdateHoliday(c.Request.Context(), accountID, id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "holiday updated", holiday)
}

func (h *WorkforceHandler) DeleteHoliday(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.workforceService.DeleteHoliday(c.Request.Context(), accountID, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "holiday deleted", nil)
}
