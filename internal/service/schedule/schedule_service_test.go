// internal/service/schedule/schedule_service_test.go
package schedule

import (
	"context"
	"fmt"
	"testing"

	"shiftcare-service/internal/domain/schedule"
	domsettings "shiftcare-service/internal/domain/settings"
	"shiftcare-service/internal/domain/workforce"
	xerrors "shiftcare-service/internal/pkg/errors"
	"shiftcare-service/internal/service/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSchedules struct {
	nextID int64
	rows   map[int64]*schedule.Schedule
}

func newFakeSchedules() *fakeSchedules {
	return &fakeSchedules{rows: make(map[int64]*schedule.Schedule)}
}

func (f *fakeSchedules) Create(_ context.Context, s *schedule.Schedule) error {
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSchedules) FindByID(_ context.Context, accountID, id int64) (*schedule.Schedule, error) {
	s, ok := f.rows[id]
	if !ok || s.AccountID != accountID {
		return nil, xerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSchedules) FindByMonth(_ context.Context, accountID int64, month, year int) (*schedule.Schedule, error) {
	for _, s := range f.rows {
		if s.AccountID == accountID && s.Month == month && s.Year == year {
			cp := *s
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeSchedules) ListByAccount(_ context.Context, accountID int64) ([]*schedule.Schedule, error) {
	var out []*schedule.Schedule
	for _, s := range f.rows {
		if s.AccountID == accountID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSchedules) UpdateGrid(_ context.Context, accountID, id int64, grid schedule.Grid) error {
	s, ok := f.rows[id]
	if !ok || s.AccountID != accountID {
		return xerrors.ErrNotFound
	}
	s.Grid = grid
	return nil
}

func (f *fakeSchedules) Delete(_ context.Context, accountID, id int64) error {
	s, ok := f.rows[id]
	if !ok || s.AccountID != accountID {
		return xerrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeQuota struct {
	limitErr   error
	incErr     error
	increments int
}

func (f *fakeQuota) CheckAccountLimits(context.Context, int64) error { return f.limitErr }

func (f *fakeQuota) IncrementQuota(context.Context, int64) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments++
	return nil
}

type fakeWorkforce struct {
	employees []*workforce.Employee
	shifts    []*workforce.Shift
	holidays  []*workforce.Holiday
}

func (f *fakeWorkforce) ListEmployees(context.Context, int64) ([]*workforce.Employee, error) {
	return f.employees, nil
}

func (f *fakeWorkforce) ListShifts(context.Context, int64) ([]*workforce.Shift, error) {
	return f.shifts, nil
}

func (f *fakeWorkforce) ListHolidays(context.Context, int64) ([]*workforce.Holiday, error) {
	return f.holidays, nil
}

type fakeSettings struct {
	prefs *domsettings.Settings
}

func (f *fakeSettings) Settings(_ context.Context, accountID int64) (*domsettings.Settings, error) {
	if f.prefs != nil {
		return f.prefs, nil
	}
	return domsettings.Defaults(accountID), nil
}

type fakeSolver struct {
	grid  schedule.Grid
	err   error
	calls int
	last  *engine.GenerateInput
}

func (f *fakeSolver) Generate(_ context.Context, in *engine.GenerateInput) (schedule.Grid, error) {
	f.calls++
	f.last = in
	return f.grid, f.err
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendScheduleReady(to string, month, year int) error {
	f.sent = append(f.sent, fmt.Sprintf("%s:%d/%d", to, month, year))
	return nil
}

type fakeAccounts struct{}

func (fakeAccounts) Email(context.Context, int64) (string, error) {
	return "owner@example.com", nil
}

type testEnv struct {
	svc       *ScheduleService
	schedules *fakeSchedules
	quota     *fakeQuota
	solver    *fakeSolver
	notifier  *fakeNotifier
	settings  *fakeSettings
}

func newTestEnv() *testEnv {
	env := &testEnv{
		schedules: newFakeSchedules(),
		quota:     &fakeQuota{},
		settings:  &fakeSettings{},
		notifier:  &fakeNotifier{},
		solver: &fakeSolver{
			grid: schedule.Grid{{{1}, {2}}, {{2}, {1}}},
		},
	}
	wf := &fakeWorkforce{
		employees: []*workforce.Employee{{ID: 1, AccountID: 1, Name: "A"}, {ID: 2, AccountID: 1, Name: "B"}},
		shifts:    []*workforce.Shift{{ID: 1, AccountID: 1, Name: "Day", StartTime: "08:00", EndTime: "16:00"}},
	}
	env.svc = NewScheduleService(
		env.schedules, env.quota, wf, env.settings, fakeAccounts{},
		env.solver, env.notifier, zap.NewNop(),
	)
	return env
}

func genReq() *schedule.GenerateScheduleRequest {
	return &schedule.GenerateScheduleRequest{NumDays: 30, Month: 5, Year: 2025}
}

func TestGenerateConsumesQuota(t *testing.T) {
	env := newTestEnv()

	grid, err := env.svc.Generate(context.Background(), 1, genReq())
	require.NoError(t, err)
	assert.Equal(t, env.solver.grid, grid)
	assert.Equal(t, 1, env.quota.increments)
	assert.Equal(t, 30, env.solver.last.NumDays)
}

func TestGenerateBlockedByLimits(t *testing.T) {
	env := newTestEnv()
	env.quota.limitErr = xerrors.ErrQuotaExceeded

	_, err := env.svc.Generate(context.Background(), 1, genReq())
	assert.ErrorIs(t, err, xerrors.ErrQuotaExceeded)
	assert.Zero(t, env.solver.calls)
	assert.Zero(t, env.quota.increments)
}

func TestGenerateSolverFailureDoesNotConsumeQuota(t *testing.T) {
	env := newTestEnv()
	env.solver.err = fmt.Errorf("engine returned status 500")
	env.solver.grid = nil

	_, err := env.svc.Generate(context.Background(), 1, genReq())
	require.Error(t, err)
	assert.Zero(t, env.quota.increments)
}

func TestGenerateNotifiesWhenEnabled(t *testing.T) {
	env := newTestEnv()
	prefs := domsettings.Defaults(1)
	prefs.EmailNtfEnabled = true
	env.settings.prefs = prefs

	_, err := env.svc.Generate(context.Background(), 1, genReq())
	require.NoError(t, err)
	assert.Equal(t, []string{"owner@example.com:5/2025"}, env.notifier.sent)
}

func TestGenerateRejectsInvalidMonth(t *testing.T) {
	env := newTestEnv()

	req := genReq()
	req.Month = 12
	_, err := env.svc.Generate(context.Background(), 1, req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCreateRejectsDuplicateMonth(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	req := &schedule.CreateScheduleRequest{Grid: env.solver.grid, Month: 5, Year: 2025}
	_, err := env.svc.Create(ctx, 1, req)
	require.NoError(t, err)
	assert.Equal(t, 1, env.quota.increments)

	_, err = env.svc.Create(ctx, 1, req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Equal(t, 1, env.quota.increments)

	// Same month under another account is fine.
	_, err = env.svc.Create(ctx, 2, req)
	require.NoError(t, err)
}

func TestUpdateReplacesGrid(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, &schedule.CreateScheduleRequest{
		Grid: env.solver.grid, Month: 5, Year: 2025,
	})
	require.NoError(t, err)

	newGrid := schedule.Grid{{{2}, {1}}}
	updated, err := env.svc.Update(ctx, 1, created.ID, &schedule.UpdateScheduleRequest{Grid: &newGrid})
	require.NoError(t, err)
	assert.Equal(t, newGrid, updated.Grid)
	assert.Equal(t, 2, env.quota.increments)

	_, err = env.svc.Update(ctx, 1, created.ID, &schedule.UpdateScheduleRequest{})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestDeleteConsumesQuota(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, &schedule.CreateScheduleRequest{
		Grid: env.solver.grid, Month: 5, Year: 2025,
	})
	require.NoError(t, err)
	require.Equal(t, 1, env.quota.increments)

	require.NoError(t, env.svc.Delete(ctx, 1, created.ID))
	assert.Equal(t, 2, env.quota.increments)

	_, err = env.svc.Get(ctx, 1, created.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestDeleteBlockedByLimits(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, &schedule.CreateScheduleRequest{
		Grid: env.solver.grid, Month: 5, Year: 2025,
	})
	require.NoError(t, err)

	env.quota.limitErr = xerrors.ErrQuotaExceeded
	err = env.svc.Delete(ctx, 1, created.ID)
	assert.ErrorIs(t, err, xerrors.ErrQuotaExceeded)
	assert.Equal(t, 1, env.quota.increments)

	// The row survives a blocked delete.
	_, err = env.svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
}

func TestCreateSurfacesQuotaRecordFailure(t *testing.T) {
	env := newTestEnv()
	env.quota.incErr = fmt.Errorf("connection reset")

	_, err := env.svc.Create(context.Background(), 1, &schedule.CreateScheduleRequest{
		Grid: env.solver.grid, Month: 5, Year: 2025,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record schedule request")
}

func TestUpdateScopedToAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, &schedule.CreateScheduleRequest{
		Grid: env.solver.grid, Month: 5, Year: 2025,
	})
	require.NoError(t, err)

	grid := schedule.Grid{{{9}}}
	_, err = env.svc.Update(ctx, 2, created.ID, &schedule.UpdateScheduleRequest{Grid: &grid})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
