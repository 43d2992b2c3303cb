// internal/repository/postgres/schedule_request_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRequestRepository struct {
	db *pgxpool.Pool
}

func NewScheduleRequestRepository(db *pgxpool.Pool) *ScheduleRequestRepository {
	return &ScheduleRequestRepository{db: db}
}

// Create seeds the account's usage row at zero for the given month.
func (r *ScheduleRequestRepository) Create(ctx context.Context, accountID int64, month int) error {
	query := `
		INSERT INTO schedule_requests (account_id, num_requests, month)
		VALUES ($1, 0, $2)
		ON CONFLICT (account_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, accountID, month); err != nil {
		return fmt.Errorf("failed to create schedule request counter: %w", err)
	}
	return nil
}

// Get returns the account's usage counter as stored. The row is not reset
// here; callers compute the effective count for the current month.
func (r *ScheduleRequestRepository) Get(ctx context.Context, accountID int64) (*billing.ScheduleRequests, error) {
	query := `SELECT account_id, num_requests, month FROM schedule_requests WHERE account_id = $1`

	var sr billing.ScheduleRequests
	err := r.db.QueryRow(ctx, query, accountID).Scan(&sr.AccountID, &sr.NumRequests, &sr.Month)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule requests: %w", err)
	}
	return &sr, nil
}

// Increment bumps the counter under a row lock so concurrent generations
// serialize. A stale month resets the counter to 1 for the new month.
func (r *ScheduleRequestRepository) Increment(ctx context.Context, tx pgx.Tx, accountID int64, currentMonth int) (*billing.ScheduleRequests, error) {
	var sr billing.ScheduleRequests
	err := tx.QueryRow(ctx,
		`SELECT account_id, num_requests, month FROM schedule_requests WHERE account_id = $1 FOR UPDATE`,
		accountID,
	).Scan(&sr.AccountID, &sr.NumRequests, &sr.Month)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule requests: %w", err)
	}

	if sr.Month != currentMonth {
		sr.Month = currentMonth
		sr.NumRequests = 1
	} else {
		sr.NumRequests++
	}

	_, err = tx.Exec(ctx,
		`UPDATE schedule_requests SET num_requests = $1, month = $2 WHERE account_id = $3`,
		sr.NumRequests, sr.Month, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to increment schedule requests: %w", err)
	}
	return &sr, nil
}

// Delete removes the counter row, used when the account is deleted.
func (r *ScheduleRequestRepository) Delete(ctx context.Context, accountID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM schedule_requests WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to delete schedule requests: %w", err)
	}
	return nil
}
