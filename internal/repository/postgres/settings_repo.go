// internal/repository/postgres/settings_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/settings"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = `account_id, dark_theme_enabled, min_max_work_hours_enabled, multi_emps_in_shift_enabled, multi_shifts_one_emp_enabled, weekend_days, max_emps_in_shift, email_ntf_enabled, email_ntf_interval`

// FindByAccount retrieves the account's settings row.
func (r *SettingsRepository) FindByAccount(ctx context.Context, accountID int64) (*settings.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE account_id = $1`

	var s settings.Settings
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&s.AccountID, &s.DarkThemeEnabled, &s.MinMaxWorkHoursEnabled,
		&s.MultiEmpsInShiftEnabled, &s.MultiShiftsOneEmpEnabled,
		&s.WeekendDays, &s.MaxEmpsInShift, &s.EmailNtfEnabled, &s.EmailNtfInterval,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}
	return &s, nil
}

// Upsert writes the full settings row, creating it on first save.
func (r *SettingsRepository) Upsert(ctx context.Context, s *settings.Settings) error {
	query := `
		INSERT INTO settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (account_id) DO UPDATE SET
			dark_theme_enabled = EXCLUDED.dark_theme_enabled,
			min_max_work_hours_enabled = EXCLUDED.min_max_work_hours_enabled,
			multi_emps_in_shift_enabled = EXCLUDED.multi_emps_in_shift_enabled,
			multi_shifts_one_emp_enabled = EXCLUDED.multi_shifts_one_emp_enabled,
			weekend_days = EXCLUDED.weekend_days,
			max_emps_in_shift = EXCLUDED.max_emps_in_shift,
			email_ntf_enabled = EXCLUDED.email_ntf_enabled,
			email_ntf_interval = EXCLUDED.email_ntf_interval
	`

	_, err := r.db.Exec(ctx, query,
		s.AccountID, s.DarkThemeEnabled, s.MinMaxWorkHoursEnabled,
		s.MultiEmpsInShiftEnabled, s.MultiShiftsOneEmpEnabled,
		s.WeekendDays, s.MaxEmpsInShift, s.EmailNtfEnabled, s.EmailNtfInterval,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}
