// internal/domain/schedule/dto.go
package schedule

type CreateScheduleRequest struct {
	Grid  Grid `json:"schedule" binding:"required"`
	Month int  `json:"month"`
	Year  int  `json:"year" binding:"required"`
}

// UpdateScheduleRequest lists the only schedule field that may change.
type UpdateScheduleRequest struct {
	Grid *Grid `json:"schedule"`
}

type GenerateScheduleRequest struct {
	NumDays int `json:"num_days" binding:"required,min=28,max=31"`
	Month   int `json:"month"`
	Year    int `json:"year" binding:"required"`
}
