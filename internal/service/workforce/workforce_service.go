// internal/service/workforce/workforce_service.go
package workforce

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shiftcare-service/internal/domain/workforce"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/service/billing"

	"go.uber.org/zap"
)

// EmployeeStore is the repository surface consumed for employees.
type EmployeeStore interface {
	Create(ctx context.Context, emp *workforce.Employee) error
	FindByID(ctx context.Context, accountID, id int64) (*workforce.Employee, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*workforce.Employee, error)
	Update(ctx context.Context, emp *workforce.Employee) error
	Delete(ctx context.Context, accountID, id int64) error
}

// ShiftStore is the repository surface consumed for shift types.
type ShiftStore interface {
	Create(ctx context.Context, sh *workforce.Shift) error
	FindByID(ctx context.Context, accountID, id int64) (*workforce.Shift, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*workforce.Shift, error)
	Update(ctx context.Context, sh *workforce.Shift) error
	Delete(ctx context.Context, accountID, id int64) error
}

// HolidayStore is the repository surface consumed for holidays.
type HolidayStore interface {
	Create(ctx context.Context, h *workforce.Holiday) error
	FindByID(ctx context.Context, accountID, id int64) (*workforce.Holiday, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*workforce.Holiday, error)
	Update(ctx context.Context, h *workforce.Holiday) error
	Delete(ctx context.Context, accountID, id int64) error
}

// CapacityGuard gates resource creation on the account's plan limits.
type CapacityGuard interface {
	CheckResourceCapacity(ctx context.Context, accountID int64, resource string) error
}

type WorkforceService struct {
	employees EmployeeStore
	shifts    ShiftStore
	holidays  HolidayStore
	guard     CapacityGuard
	logger    *zap.Logger
}

func NewWorkforceService(
	employees EmployeeStore,
	shifts ShiftStore,
	holidays HolidayStore,
	guard CapacityGuard,
	logger *zap.Logger,
) *WorkforceService {
	return &WorkforceService{
		employees: employees,
		shifts:    shifts,
		holidays:  holidays,
		guard:     guard,
		logger:    logger,
	}
}

// --- Employees ---

func (s *WorkforceService) CreateEmployee(ctx context.Context, accountID int64, req *workforce.CreateEmployeeRequest) (*workforce.Employee, error) {
	if err := validateWorkHours(req.MinWorkHours, req.MaxWorkHours); err != nil {
		return nil, err
	}
	if err := s.guard.CheckResourceCapacity(ctx, accountID, billing.ResourceEmployees); err != nil {
		return nil, err
	}

	emp := &workforce.Employee{
		AccountID:    accountID,
		Name:         req.Name,
		MinWorkHours: toNullInt32(req.MinWorkHours),
		MaxWorkHours: toNullInt32(req.MaxWorkHours),
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return nil, err
	}
	s.logger.Info("employee created",
		zap.Int64("account_id", accountID), zap.Int64("employee_id", emp.ID))
	return emp, nil
}

func (s *WorkforceService) GetEmployee(ctx context.Context, accountID, id int64) (*workforce.Employee, error) {
	return s.employees.FindByID(ctx, accountID, id)
}

func (s *WorkforceService) ListEmployees(ctx context.Context, accountID int64) ([]*workforce.Employee, error) {
	return s.employees.ListByAccount(ctx, accountID)
}

func (s *WorkforceService) UpdateEmployee(ctx context.Context, accountID, id int64, req *workforce.UpdateEmployeeRequest) (*workforce.Employee, error) {
	emp, err := s.employees.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.MinWorkHours != nil {
		emp.MinWorkHours = toNullInt32(req.MinWorkHours)
	}
	if req.MaxWorkHours != nil {
		emp.MaxWorkHours = toNullInt32(req.MaxWorkHours)
	}

	var minHours, maxHours *int32
	if emp.MinWorkHours.Valid {
		minHours = &emp.MinWorkHours.Int32
	}
	if emp.MaxWorkHours.Valid {
		maxHours = &emp.MaxWorkHours.Int32
	}
	if err := validateWorkHours(minHours, maxHours); err != nil {
		return nil, err
	}

	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *WorkforceService) DeleteEmployee(ctx context.Context, accountID, id int64) error {
	return s.employees.Delete(ctx, accountID, id)
}

// --- Shift types ---

func (s *WorkforceService) CreateShift(ctx context.Context, accountID int64, req *workforce.CreateShiftRequest) (*workforce.Shift, error) {
	if err := validateShiftTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := s.guard.CheckResourceCapacity(ctx, accountID, billing.ResourceShiftTypes); err != nil {
		return nil, err
	}

	sh := &workforce.Shift{
		AccountID: accountID,
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.shifts.Create(ctx, sh); err != nil {
		return nil, err
	}
	s.logger.Info("shift type created",
		zap.Int64("account_id", accountID), zap.Int64("shift_id", sh.ID))
	return sh, nil
}

func (s *WorkforceService) GetShift(ctx context.Context, accountID, id int64) (*workforce.Shift, error) {
	return s.shifts.FindByID(ctx, accountID, id)
}

func (s *WorkforceService) ListShifts(ctx context.Context, accountID int64) ([]*workforce.Shift, error) {
	return s.shifts.ListByAccount(ctx, accountID)
}

func (s *WorkforceService) UpdateShift(ctx context.Context, accountID, id int64, req *workforce.UpdateShiftRequest) (*workforce.Shift, error) {
	sh, err := s.shifts.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sh.Name = *req.Name
	}
	if req.StartTime != nil {
		sh.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		sh.EndTime = *req.EndTime
	}
	if err := validateShiftTimes(sh.StartTime, sh.EndTime); err != nil {
		return nil, err
	}

	if err := s.shifts.Update(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *WorkforceService) DeleteShift(ctx context.Context, accountID, id int64) error {
	return s.shifts.Delete(ctx, accountID, id)
}

// --- Holidays ---

func (s *WorkforceService) CreateHoliday(ctx context.Context, accountID int64, req *workforce.CreateHolidayRequest) (*workforce.Holiday, error) {
	start, end, err := parseHolidayRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.validateAssignees(ctx, accountID, req.AssignedTo); err != nil {
		return nil, err
	}

	h := &workforce.Holiday{
		AccountID:  accountID,
		Name:       req.Name,
		AssignedTo: req.AssignedTo,
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.holidays.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *WorkforceService) GetHoliday(ctx context.Context, accountID, id int64) (*workforce.Holiday, error) {
	return s.holidays.FindByID(ctx, accountID, id)
}

func (s *WorkforceService) ListHolidays(ctx context.Context, accountID int64) ([]*workforce.Holiday, error) {
	return s.holidays.ListByAccount(ctx, accountID)
}

func (s *WorkforceService) UpdateHoliday(ctx context.Context, accountID, id int64, req *workforce.UpdateHolidayRequest) (*workforce.Holiday, error) {
	h, err := s.holidays.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.AssignedTo != nil {
		if err := s.validateAssignees(ctx, accountID, *req.AssignedTo); err != nil {
			return nil, err
		}
		h.AssignedTo = *req.AssignedTo
	}
	startStr := h.StartDate.Format(dateLayout)
	endStr := h.EndDate.Format(dateLayout)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	start, end, err := parseHolidayRange(startStr, endStr)
	if err != nil {
		return nil, err
	}
	h.StartDate = start
	h.EndDate = end

	if err := s.holidays.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *WorkforceService) DeleteHoliday(ctx context.Context, accountID, id int64) error {
	return s.holidays.Delete(ctx, accountID, id)
}

// validateAssignees checks that every assigned employee belongs to the account.
func (s *WorkforceService) validateAssignees(ctx context.Context, accountID int64, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: holiday must be assigned to at least one employee", xerrors.ErrInvalidInput)
	}
	known, err := s.employees.ListByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	valid := make(map[int64]bool, len(known))
	for _, e := range known {
		valid[e.ID] = true
	}
	for _, id := range ids {
		if !valid[id] {
			return fmt.Errorf("%w: unknown employee %d", xerrors.ErrInvalidInput, id)
		}
	}
	return nil
}

// --- validation helpers ---

const (
	timeLayout = "15:04"
	dateLayout = "2006-01-02"
)

func validateWorkHours(minHours, maxHours *int32) error {
	if minHours != nil && *minHours < 0 {
		return fmt.Errorf("%w: min_work_hours must not be negative", xerrors.ErrInvalidInput)
	}
	if maxHours != nil && *maxHours < 0 {
		return fmt.Errorf("%w: max_work_hours must not be negative", xerrors.ErrInvalidInput)
	}
	if minHours != nil && maxHours != nil && *minHours > *maxHours {
		return fmt.Errorf("%w: min_work_hours exceeds max_work_hours", xerrors.ErrInvalidInput)
	}
	return nil
}

// validateShiftTimes accepts HH:MM values. End before start is allowed, that
// is a shift crossing midnight.
func validateShiftTimes(start, end string) error {
	if _, err := time.Parse(timeLayout, start); err != nil {
		return fmt.Errorf("%w: invalid start_time %q", xerrors.ErrInvalidInput, start)
	}
	if _, err := time.Parse(timeLayout, end); err != nil {
		return fmt.Errorf("%w: invalid end_time %q", xerrors.ErrInvalidInput, end)
	}
	if start == end {
		return fmt.Errorf("%w: start_time and end_time must differ", xerrors.ErrInvalidInput)
	}
	return nil
}

func parseHolidayRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date %q", xerrors.ErrInvalidInput, startStr)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date %q", xerrors.ErrInvalidInput, endStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date before start_date", xerrors.ErrInvalidInput)
	}
	return start, end, nil
}

func toNullInt32(v *int32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *v, Valid: true}
}
