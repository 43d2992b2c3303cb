// internal/repository/postgres/holiday_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/workforce"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HolidayRepository struct {
	db *pgxpool.Pool
}

func NewHolidayRepository(db *pgxpool.Pool) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create creates a new holiday period.
func (r *HolidayRepository) Create(ctx context.Context, h *workforce.Holiday) error {
	query := `
		INSERT INTO holidays (account_id, name, assigned_to, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		h.AccountID, h.Name, h.AssignedTo, h.StartDate, h.EndDate,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

// FindByID retrieves a holiday scoped to the owning account.
func (r *HolidayRepository) FindByID(ctx context.Context, accountID, id int64) (*workforce.Holiday, error) {
	query := `
		SELECT id, account_id, name, assigned_to, start_date, end_date
		FROM holidays
		WHERE id = $1 AND account_id = $2
	`

	var h workforce.Holiday
	err := r.db.QueryRow(ctx, query, id, accountID).Scan(
		&h.ID, &h.AccountID, &h.Name, &h.AssignedTo, &h.StartDate, &h.EndDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find holiday: %w", err)
	}
	return &h, nil
}

// ListByAccount returns all holidays of an account ordered by start date.
func (r *HolidayRepository) ListByAccount(ctx context.Context, accountID int64) ([]*workforce.Holiday, error) {
	query := `
		SELECT id, account_id, name, assigned_to, start_date, end_date
		FROM holidays
		WHERE account_id = $1
		ORDER BY start_date, id
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*workforce.Holiday
	for rows.Next() {
		var h workforce.Holiday
		if err := rows.Scan(&h.ID, &h.AccountID, &h.Name, &h.AssignedTo, &h.StartDate, &h.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, &h)
	}
	return holidays, rows.Err()
}

// Update rewrites the holiday's mutable fields.
func (r *HolidayRepository) Update(ctx context.Context, h *workforce.Holiday) error {
	query := `
		UPDATE holidays
		SET name = $1, assigned_to = $2, start_date = $3, end_date = $4
		WHERE id = $5 AND account_id = $6
	`

	result, err := r.db.Exec(ctx, query,
		h.Name, h.AssignedTo, h.StartDate, h.EndDate, h.ID, h.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holiday: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a holiday scoped to the owning account.
func (r *HolidayRepository) Delete(ctx context.Context, accountID, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
