// internal/domain/settings/entity.go
package settings

type WeekendDays string

const (
	WeekendSatSun WeekendDays = "Saturday & Sunday"
	WeekendFriSat WeekendDays = "Friday & Saturday"
	WeekendSunMon WeekendDays = "Sunday & Monday"
)

type NotificationInterval string

const (
	IntervalDaily   NotificationInterval = "Daily"
	IntervalWeekly  NotificationInterval = "Weekly"
	IntervalMonthly NotificationInterval = "Monthly"
)

// Settings holds per-account scheduling preferences. Rows are created lazily
// with these defaults on first write.
type Settings struct {
	AccountID                int64                `json:"account_id" db:"account_id"`
	DarkThemeEnabled         bool                 `json:"dark_theme_enabled" db:"dark_theme_enabled"`
	MinMaxWorkHoursEnabled   bool                 `json:"min_max_work_hours_enabled" db:"min_max_work_hours_enabled"`
	MultiEmpsInShiftEnabled  bool                 `json:"multi_emps_in_shift_enabled" db:"multi_emps_in_shift_enabled"`
	MultiShiftsOneEmpEnabled bool                 `json:"multi_shifts_one_emp_enabled" db:"multi_shifts_one_emp_enabled"`
	WeekendDays              WeekendDays          `json:"weekend_days" db:"weekend_days"`
	MaxEmpsInShift           int                  `json:"max_emps_in_shift" db:"max_emps_in_shift"`
	EmailNtfEnabled          bool                 `json:"email_ntf_enabled" db:"email_ntf_enabled"`
	EmailNtfInterval         NotificationInterval `json:"email_ntf_interval" db:"email_ntf_interval"`
}

// Defaults returns a settings row with the server defaults for an account.
func Defaults(accountID int64) *Settings {
	return &Settings{
		AccountID:              accountID,
		MinMaxWorkHoursEnabled: true,
		WeekendDays:            WeekendSatSun,
		MaxEmpsInShift:         1,
		EmailNtfInterval:       IntervalMonthly,
	}
}

// ValidWeekendDays reports whether v is one of the supported weekend pairs.
func ValidWeekendDays(v WeekendDays) bool {
	switch v {
	case WeekendSatSun, WeekendFriSat, WeekendSunMon:
		return true
	}
	return false
}

// ValidInterval reports whether v is a supported notification interval.
func ValidInterval(v NotificationInterval) bool {
	switch v {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}
