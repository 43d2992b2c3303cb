// internal/service/workforce/workforce_service_test.go
package workforce

import (
	"context"
	"testing"

	"shiftcare-service/internal/domain/workforce"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmployees struct {
	nextID int64
	rows   map[int64]*workforce.Employee
}

func newFakeEmployees() *fakeEmployees {
	return &fakeEmployees{rows: make(map[int64]*workforce.Employee)}
}

func (f *fakeEmployees) Create(_ context.Context, emp *workforce.Employee) error {
	f.nextID++
	emp.ID = f.nextID
	cp := *emp
	f.rows[emp.ID] = &cp
	return nil
}

func (f *fakeEmployees) FindByID(_ context.Context, accountID, id int64) (*workforce.Employee, error) {
	emp, ok := f.rows[id]
	if !ok || emp.AccountID != accountID {
		return nil, xerrors.ErrNotFound
	}
	cp := *emp
	return &cp, nil
}

func (f *fakeEmployees) ListByAccount(_ context.Context, accountID int64) ([]*workforce.Employee, error) {
	var out []*workforce.Employee
	for _, emp := range f.rows {
		if emp.AccountID == accountID {
			cp := *emp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEmployees) Update(_ context.Context, emp *workforce.Employee) error {
	stored, ok := f.rows[emp.ID]
	if !ok || stored.AccountID != emp.AccountID {
		return xerrors.ErrNotFound
	}
	cp := *emp
	f.rows[emp.ID] = &cp
	return nil
}

func (f *fakeEmployees) Delete(_ context.Context, accountID, id int64) error {
	stored, ok := f.rows[id]
	if !ok || stored.AccountID != accountID {
		return xerrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeShifts struct {
	nextID int64
	rows   map[int64]*workforce.Shift
}

func newFakeShifts() *fakeShifts {
	return &fakeShifts{rows: make(map[int64]*workforce.Shift)}
}

func (f *fakeShifts) Create(_ context.Context, sh *workforce.Shift) error {
	f.nextID++
	sh.ID = f.nextID
	cp := *sh
	f.rows[sh.ID] = &cp
	return nil
}

func (f *fakeShifts) FindByID(_ context.Context, accountID, id int64) (*workforce.Shift, error) {
	sh, ok := f.rows[id]
	if !ok || sh.AccountID != accountID {
		return nil, xerrors.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (f *fakeShifts) ListByAccount(_ context.Context, accountID int64) ([]*workforce.Shift, error) {
	var out []*workforce.Shift
	for _, sh := range f.rows {
		if sh.AccountID == accountID {
			cp := *sh
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeShifts) Update(_ context.Context, sh *workforce.Shift) error {
	stored, ok := f.rows[sh.ID]
	if !ok || stored.AccountID != sh.AccountID {
		return xerrors.ErrNotFound
	}
	cp := *sh
	f.rows[sh.ID] = &cp
	return nil
}

func (f *fakeShifts) Delete(_ context.Context, accountID, id int64) error {
	stored, ok := f.rows[id]
	if !ok || stored.AccountID != accountID {
		return xerrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeHolidays struct {
	nextID int64
	rows   map[int64]*workforce.Holiday
}

func newFakeHolidays() *fakeHolidays {
	return &fakeHolidays{rows: make(map[int64]*workforce.Holiday)}
}

func (f *fakeHolidays) Create(_ context.Context, h *workforce.Holiday) error {
	f.nextID++
	h.ID = f.nextID
	cp := *h
	f.rows[h.ID] = &cp
	return nil
}

func (f *fakeHolidays) FindByID(_ context.Context, accountID, id int64) (*workforce.Holiday, error) {
	h, ok := f.rows[id]
	if !ok || h.AccountID != accountID {
		return nil, xerrors.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHolidays) ListByAccount(_ context.Context, accountID int64) ([]*workforce.Holiday, error) {
	var out []*workforce.Holiday
	for _, h := range f.rows {
		if h.AccountID == accountID {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeHolidays) Update(_ context.Context, h *workforce.Holiday) error {
	stored, ok := f.rows[h.ID]
	if !ok || stored.AccountID != h.AccountID {
		return xerrors.ErrNotFound
	}
	cp := *h
	f.rows[h.ID] = &cp
	return nil
}

func (f *fakeHolidays) Delete(_ context.Context, accountID, id int64) error {
	stored, ok := f.rows[id]
	if !ok || stored.AccountID != accountID {
		return xerrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeGuard struct {
	deny map[string]error
}

func (f *fakeGuard) CheckResourceCapacity(_ context.Context, _ int64, resource string) error {
	if f.deny == nil {
		return nil
	}
	return f.deny[resource]
}

func newService(guard *fakeGuard) (*WorkforceService, *fakeEmployees, *fakeShifts, *fakeHolidays) {
	emps := newFakeEmployees()
	shifts := newFakeShifts()
	hols := newFakeHolidays()
	svc := NewWorkforceService(emps, shifts, hols, guard, zap.NewNop())
	return svc, emps, shifts, hols
}

func int32p(v int32) *int32 { return &v }
func strp(v string) *string { return &v }

func TestCreateEmployee(t *testing.T) {
	svc, emps, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, &workforce.CreateEmployeeRequest{
		Name:         "Alice",
		MinWorkHours: int32p(20),
		MaxWorkHours: int32p(40),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), emp.ID)
	assert.True(t, emp.MinWorkHours.Valid)
	assert.Equal(t, int32(20), emp.MinWorkHours.Int32)
	assert.Len(t, emps.rows, 1)
}

func TestCreateEmployeeBlockedByCapacity(t *testing.T) {
	limitErr := xerrors.NewResourceLimitError("employees", 10)
	svc, emps, _, _ := newService(&fakeGuard{deny: map[string]error{"employees": limitErr}})

	_, err := svc.CreateEmployee(context.Background(), 1, &workforce.CreateEmployeeRequest{Name: "Bob"})
	assert.ErrorIs(t, err, limitErr)
	assert.Empty(t, emps.rows)
}

func TestCreateEmployeeInvalidWorkHours(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})

	_, err := svc.CreateEmployee(context.Background(), 1, &workforce.CreateEmployeeRequest{
		Name:         "Carol",
		MinWorkHours: int32p(40),
		MaxWorkHours: int32p(20),
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestUpdateEmployeePartialFields(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, &workforce.CreateEmployeeRequest{
		Name:         "Dave",
		MinWorkHours: int32p(10),
		MaxWorkHours: int32p(30),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateEmployee(ctx, 1, emp.ID, &workforce.UpdateEmployeeRequest{
		Name: strp("David"),
	})
	require.NoError(t, err)
	assert.Equal(t, "David", updated.Name)
	assert.Equal(t, int32(10), updated.MinWorkHours.Int32)
	assert.Equal(t, int32(30), updated.MaxWorkHours.Int32)
}

func TestEmployeeIsolationAcrossAccounts(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, &workforce.CreateEmployeeRequest{Name: "Eve"})
	require.NoError(t, err)

	_, err = svc.GetEmployee(ctx, 2, emp.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, 2, emp.ID), xerrors.ErrNotFound)
}

func TestCreateShiftValidation(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	_, err := svc.CreateShift(ctx, 1, &workforce.CreateShiftRequest{
		Name: "Bad", StartTime: "8am", EndTime: "14:00",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = svc.CreateShift(ctx, 1, &workforce.CreateShiftRequest{
		Name: "Zero", StartTime: "08:00", EndTime: "08:00",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	// Overnight shifts are legitimate.
	sh, err := svc.CreateShift(ctx, 1, &workforce.CreateShiftRequest{
		Name: "Night", StartTime: "22:00", EndTime: "06:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "22:00", sh.StartTime)
}

func TestCreateShiftBlockedByCapacity(t *testing.T) {
	limitErr := xerrors.NewResourceLimitError("shift types", 2)
	svc, _, shifts, _ := newService(&fakeGuard{deny: map[string]error{"shift types": limitErr}})

	_, err := svc.CreateShift(context.Background(), 1, &workforce.CreateShiftRequest{
		Name: "Morning", StartTime: "08:00", EndTime: "14:00",
	})
	assert.ErrorIs(t, err, limitErr)
	assert.Empty(t, shifts.rows)
}

func TestUpdateShiftRevalidatesTimes(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	sh, err := svc.CreateShift(ctx, 1, &workforce.CreateShiftRequest{
		Name: "Morning", StartTime: "08:00", EndTime: "14:00",
	})
	require.NoError(t, err)

	_, err = svc.UpdateShift(ctx, 1, sh.ID, &workforce.UpdateShiftRequest{
		EndTime: strp("nope"),
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	updated, err := svc.UpdateShift(ctx, 1, sh.ID, &workforce.UpdateShiftRequest{
		EndTime: strp("15:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "15:00", updated.EndTime)
}

func TestCreateHoliday(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, &workforce.CreateEmployeeRequest{Name: "Frank"})
	require.NoError(t, err)

	h, err := svc.CreateHoliday(ctx, 1, &workforce.CreateHolidayRequest{
		Name:       "Summer leave",
		AssignedTo: []int64{emp.ID},
		StartDate:  "2025-07-01",
		EndDate:    "2025-07-14",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{emp.ID}, h.AssignedTo)
	assert.Equal(t, 2025, h.StartDate.Year())
}

func TestCreateHolidayRejectsForeignEmployee(t *testing.T) {
	svc, _, _, hols := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 2, &workforce.CreateEmployeeRequest{Name: "Grace"})
	require.NoError(t, err)

	_, err = svc.CreateHoliday(ctx, 1, &workforce.CreateHolidayRequest{
		Name:       "Leave",
		AssignedTo: []int64{emp.ID},
		StartDate:  "2025-07-01",
		EndDate:    "2025-07-02",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Empty(t, hols.rows)
}

func TestCreateHolidayRejectsInvertedRange(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, &workforce.CreateEmployeeRequest{Name: "Hugo"})
	require.NoError(t, err)

	_, err = svc.CreateHoliday(ctx, 1, &workforce.CreateHolidayRequest{
		Name:       "Leave",
		AssignedTo: []int64{emp.ID},
		StartDate:  "2025-07-14",
		EndDate:    "2025-07-01",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestUpdateHolidayDates(t *testing.T) {
	svc, _, _, _ := newService(&fakeGuard{})
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, &workforce.CreateEmployeeRequest{Name: "Iris"})
	require.NoError(t, err)

	h, err := svc.CreateHoliday(ctx, 1, &workforce.CreateHolidayRequest{
		Name:       "Leave",
		AssignedTo: []int64{emp.ID},
		StartDate:  "2025-07-01",
		EndDate:    "2025-07-07",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateHoliday(ctx, 1, h.ID, &workforce.UpdateHolidayRequest{
		EndDate: strp("2025-07-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.EndDate.Day())
	assert.Equal(t, 1, updated.StartDate.Day())

	_, err = svc.UpdateHoliday(ctx, 1, h.ID, &workforce.UpdateHolidayRequest{
		EndDate: strp("2025-06-01"),
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}
