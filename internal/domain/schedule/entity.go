// internal/domain/schedule/entity.go
package schedule

import "time"

// Grid is a generated rota: Grid[day][shift] holds the employee IDs assigned
// to that shift on that day.
type Grid [][][]int64

// Schedule is a stored monthly rota for an account.
type Schedule struct {
	ID        int64     `json:"id" db:"id"`
	AccountID int64     `json:"account_id" db:"account_id"`
	Grid      Grid      `json:"schedule" db:"schedule"`
	Month     int       `json:"month" db:"month"` // 0-11, calendar convention of the engine
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
