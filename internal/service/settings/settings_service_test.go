// internal/service/settings/settings_service_test.go
package settings

import (
	"context"
	"testing"

	"shiftcare-service/internal/domain/settings"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	rows map[int64]*settings.Settings
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]*settings.Settings)}
}

func (f *fakeStore) FindByAccount(_ context.Context, accountID int64) (*settings.Settings, error) {
	s, ok := f.rows[accountID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) Upsert(_ context.Context, s *settings.Settings) error {
	cp := *s
	f.rows[s.AccountID] = &cp
	return nil
}

func boolp(v bool) *bool { return &v }
func intp(v int) *int    { return &v }

func TestSettingsDefaultsWithoutRow(t *testing.T) {
	store := newFakeStore()
	svc := NewSettingsService(store, zap.NewNop())

	prefs, err := svc.Settings(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, settings.WeekendSatSun, prefs.WeekendDays)
	assert.Equal(t, 1, prefs.MaxEmpsInShift)
	assert.True(t, prefs.MinMaxWorkHoursEnabled)

	// Reading defaults must not create a row.
	assert.Empty(t, store.rows)
}

func TestUpdateCreatesRowLazily(t *testing.T) {
	store := newFakeStore()
	svc := NewSettingsService(store, zap.NewNop())

	prefs, err := svc.Update(context.Background(), 1, &settings.UpdateSettingsRequest{
		DarkThemeEnabled: boolp(true),
	})
	require.NoError(t, err)
	assert.True(t, prefs.DarkThemeEnabled)
	assert.Len(t, store.rows, 1)
	// Untouched fields keep their defaults.
	assert.Equal(t, settings.IntervalMonthly, store.rows[1].EmailNtfInterval)
}

func TestUpdateMaxEmpsRequiresToggle(t *testing.T) {
	svc := NewSettingsService(newFakeStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, &settings.UpdateSettingsRequest{
		MaxEmpsInShift: intp(3),
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	prefs, err := svc.Update(ctx, 1, &settings.UpdateSettingsRequest{
		MultiEmpsInShiftEnabled: boolp(true),
		MaxEmpsInShift:          intp(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, prefs.MaxEmpsInShift)

	_, err = svc.Update(ctx, 1, &settings.UpdateSettingsRequest{
		MaxEmpsInShift: intp(11),
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestUpdateDisablingMultiEmpsResetsMax(t *testing.T) {
	svc := NewSettingsService(newFakeStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, &settings.UpdateSettingsRequest{
		MultiEmpsInShiftEnabled: boolp(true),
		MaxEmpsInShift:          intp(5),
	})
	require.NoError(t, err)

	prefs, err := svc.Update(ctx, 1, &settings.UpdateSettingsRequest{
		MultiEmpsInShiftEnabled: boolp(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, prefs.MaxEmpsInShift)
}

func TestUpdateValidatesEnums(t *testing.T) {
	svc := NewSettingsService(newFakeStore(), zap.NewNop())
	ctx := context.Background()

	bad := settings.WeekendDays("Monday & Tuesday")
	_, err := svc.Update(ctx, 1, &settings.UpdateSettingsRequest{WeekendDays: &bad})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	good := settings.WeekendFriSat
	prefs, err := svc.Update(ctx, 1, &settings.UpdateSettingsRequest{WeekendDays: &good})
	require.NoError(t, err)
	assert.Equal(t, settings.WeekendFriSat, prefs.WeekendDays)

	badIvl := settings.NotificationInterval("Hourly")
	_, err = svc.Update(ctx, 1, &settings.UpdateSettingsRequest{EmailNtfInterval: &badIvl})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}
