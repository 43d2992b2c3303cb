// internal/domain/workforce/dto.go
package workforce

type CreateEmployeeRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	MinWorkHours *int32 `json:"min_work_hours"`
	MaxWorkHours *int32 `json:"max_work_hours"`
}

// UpdateEmployeeRequest lists the only employee fields that may change.
// Nil pointers leave the stored value untouched.
type UpdateEmployeeRequest struct {
	Name         *string `json:"name"`
	MinWorkHours *int32  `json:"min_work_hours"`
	MaxWorkHours *int32  `json:"max_work_hours"`
}

type CreateShiftRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// UpdateShiftRequest lists the only shift fields that may change.
type UpdateShiftRequest struct {
	Name      *string `json:"name"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type CreateHolidayRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	AssignedTo []int64 `json:"assigned_to" binding:"required,min=1"`
	StartDate  string  `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate    string  `json:"end_date" binding:"required"`
}

// UpdateHolidayRequest lists the only holiday fields that may change.
type UpdateHolidayRequest struct {
	Name       *string  `json:"name"`
	AssignedTo *[]int64 `json:"assigned_to"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
}
