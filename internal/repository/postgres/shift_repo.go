// internal/repository/postgres/shift_repo.go
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

type ShiftRepository struct {
	db *pgxpool.Pool
}

func NewShiftRepository(db *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create creates a new shift type.
func (r *ShiftRepository) Create(ctx context.Context, sh *workforce.Shift) error {
	query := `
		INSERT INTO shifts (account_id, name, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, sh.AccountID, sh.Name, sh.StartTime, sh.EndTime).
		Scan(&sh.ID, &sh.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

// FindByID retrieves a shift type scoped to the owning account.
func (r *ShiftRepository) FindByID(ctx context.Context, accountID, id int64) (*workforce.Shift, error) {
	query := `
		SELECT id, account_id, name, start_time, end_time, created_at
		FROM shifts
		WHERE id = $1 AND account_id = $2
	`

	var sh workforce.Shift
	err := r.db.QueryRow(ctx, query, id, accountID).Scan(
		&sh.ID, &sh.AccountID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shift: %w", err)
	}
	return &sh, nil
}

// ListByAccount returns all shift types of an account ordered by creation.
func (r *ShiftRepository) ListByAccount(ctx context.Context, accountID int64) ([]*workforce.Shift, error) {
	query := `
		SELECT id, account_id, name, start_time, end_time, created_at
		FROM shifts
		WHERE account_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*workforce.Shift
	for rows.Next() {
		var sh workforce.Shift
		if err := rows.Scan(&sh.ID, &sh.AccountID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, &sh)
	}
	return shifts, rows.Err()
}

// CountByAccount returns how many shift types the account currently has.
func (r *ShiftRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM shifts WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shifts: %w", err)
	}
	return count, nil
}

// Update rewrites the shift type's mutable fields.
func (r *ShiftRepository) Update(ctx context.Context, sh *workforce.Shift) error {
	query := `
		UPDATE shifts
		SET name = $1, start_time = $2, end_time = $3
		WHERE id = $4 AND account_id = $5
	`

	result, err := r.db.Exec(ctx, query, sh.Name, sh.StartTime, sh.EndTime, sh.ID, sh.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a shift type scoped to the owning account.
func (r *ShiftRepository) Delete(ctx context.Context, accountID, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM shifts WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
