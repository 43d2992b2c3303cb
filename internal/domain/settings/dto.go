// internal/domain/settings/dto.go
package settings

// UpdateSettingsRequest lists the preference fields that may change.
// Nil pointers leave the stored value untouched.
type UpdateSettingsRequest struct {
	DarkThemeEnabled         *bool                 `json:"dark_theme_enabled"`
	MinMaxWorkHoursEnabled   *bool                 `json:"min_max_work_hours_enabled"`
	MultiEmpsInShiftEnabled  *bool                 `json:"multi_emps_in_shift_enabled"`
	MultiShiftsOneEmpEnabled *bool                 `json:"multi_shifts_one_emp_enabled"`
	WeekendDays              *WeekendDays          `json:"weekend_days"`
	MaxEmpsInShift           *int                  `json:"max_emps_in_shift"`
	EmailNtfEnabled          *bool                 `json:"email_ntf_enabled"`
	EmailNtfInterval         *NotificationInterval `json:"email_ntf_interval"`
}
