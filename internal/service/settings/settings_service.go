// internal/service/settings/settings_service.go
package settings

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/settings"
	xerrors "shiftcare-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// SettingsStore is the repository surface for per-account preferences.
type SettingsStore interface {
	FindByAccount(ctx context.Context, accountID int64) (*settings.Settings, error)
	Upsert(ctx context.Context, s *settings.Settings) error
}

type SettingsService struct {
	store  SettingsStore
	logger *zap.Logger
}

func NewSettingsService(store SettingsStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// Settings returns the stored preferences, or the defaults if the account
// has never written any. The row is created lazily on first update.
func (s *SettingsService) Settings(ctx context.Context, accountID int64) (*settings.Settings, error) {
	prefs, err := s.store.FindByAccount(ctx, accountID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return settings.Defaults(accountID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return prefs, nil
}

// Update applies the non-nil fields and persists the full row.
func (s *SettingsService) Update(ctx context.Context, accountID int64, req *settings.UpdateSettingsRequest) (*settings.Settings, error) {
	prefs, err := s.Settings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.DarkThemeEnabled != nil {
		prefs.DarkThemeEnabled = *req.DarkThemeEnabled
	}
	if req.MinMaxWorkHoursEnabled != nil {
		prefs.MinMaxWorkHoursEnabled = *req.MinMaxWorkHoursEnabled
	}
	if req.MultiEmpsInShiftEnabled != nil {
		prefs.MultiEmpsInShiftEnabled = *req.MultiEmpsInShiftEnabled
		if !prefs.MultiEmpsInShiftEnabled {
			prefs.MaxEmpsInShift = 1
		}
	}
	if req.MultiShiftsOneEmpEnabled != nil {
		prefs.MultiShiftsOneEmpEnabled = *req.MultiShiftsOneEmpEnabled
	}
	if req.WeekendDays != nil {
		if !settings.ValidWeekendDays(*req.WeekendDays) {
			return nil, fmt.Errorf("%w: unsupported weekend days %q", xerrors.ErrInvalidInput, *req.WeekendDays)
		}
		prefs.WeekendDays = *req.WeekendDays
	}
	if req.MaxEmpsInShift != nil {
		if *req.MaxEmpsInShift < 1 || *req.MaxEmpsInShift > 10 {
			return nil, fmt.Errorf("%w: max_emps_in_shift must be in [1,10]", xerrors.ErrInvalidInput)
		}
		if *req.MaxEmpsInShift > 1 && !prefs.MultiEmpsInShiftEnabled {
			return nil, fmt.Errorf("%w: enable multi_emps_in_shift first", xerrors.ErrInvalidInput)
		}
		prefs.MaxEmpsInShift = *req.MaxEmpsInShift
	}
	if req.EmailNtfEnabled != nil {
		prefs.EmailNtfEnabled = *req.EmailNtfEnabled
	}
	if req.EmailNtfInterval != nil {
		if !settings.ValidInterval(*req.EmailNtfInterval) {
			return nil, fmt.Errorf("%w: unsupported notification interval %q", xerrors.ErrInvalidInput, *req.EmailNtfInterval)
		}
		prefs.EmailNtfInterval = *req.EmailNtfInterval
	}

	if err := s.store.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
