// internal/service/schedule/schedule_service.go
package schedule

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/schedule"
	domsettings "shiftcare-service/internal/domain/settings"
	"shiftcare-service/internal/domain/workforce"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/service/engine"

	"go.uber.org/zap"
)

// ScheduleStore is the repository surface consumed for stored rotas.
type ScheduleStore interface {
	Create(ctx context.Context, s *schedule.Schedule) error
	FindByID(ctx context.Context, accountID, id int64) (*schedule.Schedule, error)
	FindByMonth(ctx context.Context, accountID int64, month, year int) (*schedule.Schedule, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*schedule.Schedule, error)
	UpdateGrid(ctx context.Context, accountID, id int64, grid schedule.Grid) error
	Delete(ctx context.Context, accountID, id int64) error
}

// QuotaGuard gates schedule mutations on plan limits and the monthly counter.
type QuotaGuard interface {
	CheckAccountLimits(ctx context.Context, accountID int64) error
	IncrementQuota(ctx context.Context, accountID int64) error
}

// WorkforceReader supplies the solver inputs.
type WorkforceReader interface {
	ListEmployees(ctx context.Context, accountID int64) ([]*workforce.Employee, error)
	ListShifts(ctx context.Context, accountID int64) ([]*workforce.Shift, error)
	ListHolidays(ctx context.Context, accountID int64) ([]*workforce.Holiday, error)
}

// SettingsReader loads the account's scheduling preferences.
type SettingsReader interface {
	Settings(ctx context.Context, accountID int64) (*domsettings.Settings, error)
}

// Notifier announces a freshly generated rota.
type Notifier interface {
	SendScheduleReady(to string, month, year int) error
}

// AccountReader resolves the notification address.
type AccountReader interface {
	Email(ctx context.Context, accountID int64) (string, error)
}

type ScheduleService struct {
	schedules ScheduleStore
	guard     QuotaGuard
	workforce WorkforceReader
	settings  SettingsReader
	accounts  AccountReader
	solver    engine.Engine
	notifier  Notifier
	logger    *zap.Logger
}

func NewScheduleService(
	schedules ScheduleStore,
	guard QuotaGuard,
	wf WorkforceReader,
	settings SettingsReader,
	accounts AccountReader,
	solver engine.Engine,
	notifier Notifier,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		guard:     guard,
		workforce: wf,
		settings:  settings,
		accounts:  accounts,
		solver:    solver,
		notifier:  notifier,
		logger:    logger,
	}
}

// Generate builds a rota through the external solver. The request counts
// against the monthly quota once the solver succeeds.
func (s *ScheduleService) Generate(ctx context.Context, accountID int64, req *schedule.GenerateScheduleRequest) (schedule.Grid, error) {
	if err := validateMonthYear(req.Month, req.Year); err != nil {
		return nil, err
	}
	if err := s.guard.CheckAccountLimits(ctx, accountID); err != nil {
		return nil, err
	}

	employees, err := s.workforce.ListEmployees(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("%w: no employees to schedule", xerrors.ErrInvalidInput)
	}
	shifts, err := s.workforce.ListShifts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift types: %w", err)
	}
	if len(shifts) == 0 {
		return nil, fmt.Errorf("%w: no shift types defined", xerrors.ErrInvalidInput)
	}
	holidays, err := s.workforce.ListHolidays(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	prefs, err := s.settings.Settings(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	grid, err := s.solver.Generate(ctx, &engine.GenerateInput{
		NumDays:   req.NumDays,
		Month:     req.Month,
		Year:      req.Year,
		Employees: employees,
		Shifts:    shifts,
		Holidays:  holidays,
		Settings:  prefs,
	})
	if err != nil {
		return nil, err
	}

	if err := s.guard.IncrementQuota(ctx, accountID); err != nil {
		s.logger.Error("failed to record schedule request",
			zap.Int64("account_id", accountID), zap.Error(err))
	}

	if prefs.EmailNtfEnabled {
		s.notifyReady(ctx, accountID, req.Month, req.Year)
	}
	return grid, nil
}

// Create stores a rota. The mutation counts against the monthly quota.
func (s *ScheduleService) Create(ctx context.Context, accountID int64, req *schedule.CreateScheduleRequest) (*schedule.Schedule, error) {
	if err := validateMonthYear(req.Month, req.Year); err != nil {
		return nil, err
	}
	if err := s.guard.CheckAccountLimits(ctx, accountID); err != nil {
		return nil, err
	}

	if existing, err := s.schedules.FindByMonth(ctx, accountID, req.Month, req.Year); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: schedule for %d/%d already exists", xerrors.ErrInvalidInput, req.Month+1, req.Year)
	} else if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	sched := &schedule.Schedule{
		AccountID: accountID,
		Grid:      req.Grid,
		Month:     req.Month,
		Year:      req.Year,
	}
	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, err
	}

	if err := s.guard.IncrementQuota(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to record schedule request: %w", err)
	}
	return sched, nil
}

func (s *ScheduleService) Get(ctx context.Context, accountID, id int64) (*schedule.Schedule, error) {
	return s.schedules.FindByID(ctx, accountID, id)
}

func (s *ScheduleService) GetByMonth(ctx context.Context, accountID int64, month, year int) (*schedule.Schedule, error) {
	if err := validateMonthYear(month, year); err != nil {
		return nil, err
	}
	return s.schedules.FindByMonth(ctx, accountID, month, year)
}

func (s *ScheduleService) List(ctx context.Context, accountID int64) ([]*schedule.Schedule, error) {
	return s.schedules.ListByAccount(ctx, accountID)
}

// Update replaces the stored grid. The mutation counts against the quota.
func (s *ScheduleService) Update(ctx context.Context, accountID, id int64, req *schedule.UpdateScheduleRequest) (*schedule.Schedule, error) {
	if req.Grid == nil {
		return nil, fmt.Errorf("%w: schedule grid required", xerrors.ErrInvalidInput)
	}
	if err := s.guard.CheckAccountLimits(ctx, accountID); err != nil {
		return nil, err
	}

	if err := s.schedules.UpdateGrid(ctx, accountID, id, *req.Grid); err != nil {
		return nil, err
	}

	if err := s.guard.IncrementQuota(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to record schedule request: %w", err)
	}
	return s.schedules.FindByID(ctx, accountID, id)
}

// Delete removes a stored rota. The mutation counts against the quota.
func (s *ScheduleService) Delete(ctx context.Context, accountID, id int64) error {
	if err := s.guard.CheckAccountLimits(ctx, accountID); err != nil {
		return err
	}
	if err := s.schedules.Delete(ctx, accountID, id); err != nil {
		return err
	}
	if err := s.guard.IncrementQuota(ctx, accountID); err != nil {
		return fmt.Errorf("failed to record schedule request: %w", err)
	}
	return nil
}

func (s *ScheduleService) notifyReady(ctx context.Context, accountID int64, month, year int) {
	email, err := s.accounts.Email(ctx, accountID)
	if err != nil {
		s.logger.Warn("failed to resolve notification address",
			zap.Int64("account_id", accountID), zap.Error(err))
		return
	}
	if err := s.notifier.SendScheduleReady(email, month, year); err != nil {
		s.logger.Warn("failed to send schedule notification",
			zap.Int64("account_id", accountID), zap.Error(err))
	}
}

// Months follow the engine's 0-11 convention.
func validateMonthYear(month, year int) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: month must be in [0,11]", xerrors.ErrInvalidInput)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: implausible year %d", xerrors.ErrInvalidInput, year)
	}
	return nil
}
