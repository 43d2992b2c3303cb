// internal/repository/postgres/schedule_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/schedule"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create stores a generated rota. The grid is persisted as JSONB.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	gridJSON, err := json.Marshal(s.Grid)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule grid: %w", err)
	}

	query := `
		INSERT INTO schedules (account_id, schedule, month, year)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(ctx, query, s.AccountID, gridJSON, s.Month, s.Year).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// FindByID retrieves a schedule scoped to the owning account.
func (r *ScheduleRepository) FindByID(ctx context.Context, accountID, id int64) (*schedule.Schedule, error) {
	query := `
		SELECT id, account_id, schedule, month, year, created_at
		FROM schedules
		WHERE id = $1 AND account_id = $2
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id, accountID))
}

// FindByMonth retrieves the account's rota for a given month and year.
func (r *ScheduleRepository) FindByMonth(ctx context.Context, accountID int64, month, year int) (*schedule.Schedule, error) {
	query := `
		SELECT id, account_id, schedule, month, year, created_at
		FROM schedules
		WHERE account_id = $1 AND month = $2 AND year = $3
		ORDER BY id DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, accountID, month, year))
}

// ListByAccount returns all stored rotas of an account, newest first.
func (r *ScheduleRepository) ListByAccount(ctx context.Context, accountID int64) ([]*schedule.Schedule, error) {
	query := `
		SELECT id, account_id, schedule, month, year, created_at
		FROM schedules
		WHERE account_id = $1
		ORDER BY year DESC, month DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*schedule.Schedule
	for rows.Next() {
		var s schedule.Schedule
		var gridJSON []byte
		if err := rows.Scan(&s.ID, &s.AccountID, &gridJSON, &s.Month, &s.Year, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		if err := json.Unmarshal(gridJSON, &s.Grid); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule grid: %w", err)
		}
		schedules = append(schedules, &s)
	}
	return schedules, rows.Err()
}

// UpdateGrid replaces the stored grid for manual edits.
func (r *ScheduleRepository) UpdateGrid(ctx context.Context, accountID, id int64, grid schedule.Grid) error {
	gridJSON, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule grid: %w", err)
	}

	result, err := r.db.Exec(ctx,
		`UPDATE schedules SET schedule = $1 WHERE id = $2 AND account_id = $3`,
		gridJSON, id, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a schedule scoped to the owning account.
func (r *ScheduleRepository) Delete(ctx context.Context, accountID, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM schedules WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) scanOne(row pgx.Row) (*schedule.Schedule, error) {
	var s schedule.Schedule
	var gridJSON []byte
	err := row.Scan(&s.ID, &s.AccountID, &gridJSON, &s.Month, &s.Year, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	if err := json.Unmarshal(gridJSON, &s.Grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule grid: %w", err)
	}
	return &s, nil
}
