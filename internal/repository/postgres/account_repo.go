// internal/repository/postgres/account_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftcare-service/internal/domain/account"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, hashed_password, email_verified, stripe_customer_id, has_used_trial, created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, acc.Email, acc.HashedPassword).
		Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindByID retrieves an account by ID.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// FindByEmail retrieves an account by email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

// UpdateEmail changes an account's email and clears its verified flag.
func (r *AccountRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	query := `
		UPDATE accounts
		SET email = $1, email_verified = FALSE, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, email, time.Now().UTC(), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to update email: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	query := `UPDATE accounts SET hashed_password = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, hashed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags the account's email as verified.
func (r *AccountRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET email_verified = TRUE, updated_at = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// MarkTrialUsedTx flips has_used_trial inside the caller's transaction.
// The flag is monotone; it is never reset.
func (r *AccountRepository) MarkTrialUsedTx(ctx context.Context, tx pgx.Tx, id int64) error {
	query := `UPDATE accounts SET has_used_trial = TRUE, updated_at = $1 WHERE id = $2`
	result, err := tx.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark trial used: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetStripeCustomerIDTx stores (or clears, with empty id) the account's
// billing customer reference inside the caller's transaction.
func (r *AccountRepository) SetStripeCustomerIDTx(ctx context.Context, tx pgx.Tx, id int64, customerID string) error {
	query := `UPDATE accounts SET stripe_customer_id = NULLIF($1, ''), updated_at = $2 WHERE id = $3`
	result, err := tx.Exec(ctx, query, customerID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set stripe customer id: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes an account; dependent rows cascade.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) scanOne(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID, &acc.Email, &acc.HashedPassword, &acc.EmailVerified,
		&acc.StripeCustomerID, &acc.HasUsedTrial, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &acc, nil
}
