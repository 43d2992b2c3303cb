// internal/domain/workforce/entity.go
package workforce

import (
	"database/sql"
	"time"
)

// Employee is a schedulable staff member of an account.
type Employee struct {
	ID           int64         `json:"id" db:"id"`
	AccountID    int64         `json:"account_id" db:"account_id"`
	Name         string        `json:"name" db:"name"`
	MinWorkHours sql.NullInt32 `json:"min_work_hours,omitempty" db:"min_work_hours"`
	MaxWorkHours sql.NullInt32 `json:"max_work_hours,omitempty" db:"max_work_hours"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// Shift is a shift type (time slot template) of an account, e.g. "Morning
// 08:00-14:00". Times are stored as "HH:MM".
type Shift struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"account_id" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	StartTime string    `json:"start_time" db:"start_time"`
	EndTime   string    `json:"end_time" db:"end_time"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Holiday is a period during which the assigned employees are unavailable.
type Holiday struct {
	ID         int64     `json:"id" db:"id"`
	AccountID  int64     `json:"account_id" db:"account_id"`
	Name       string    `json:"name" db:"name"`
	AssignedTo []int64   `json:"assigned_to" db:"assigned_to"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`
}
