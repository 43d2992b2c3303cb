// internal/domain/billing/catalog.go
package billing

import "fmt"

type PlanName string

const (
	PlanBasic    PlanName = "basic"
	PlanStandard PlanName = "standard"
	PlanPremium  PlanName = "premium"
	PlanCustom   PlanName = "custom"
)

// PlanDetails carries the resource and usage limits a plan grants.
type PlanDetails struct {
	MaxEmployees       int    `json:"max_employees"`
	MaxShiftTypes      int    `json:"max_shift_types"`
	MaxMonthlyRequests int    `json:"max_monthly_requests"`
	ExportExcel        bool   `json:"export_excel"`
	EmailNotifications bool   `json:"email_notifications"`
	Support            string `json:"support"` // basic, standard, priority
}

// PlanTerms is a catalog entry: a plan's price and its limits.
type PlanTerms struct {
	Name    PlanName    `json:"name"`
	Price   float64     `json:"price"`
	Details PlanDetails `json:"details"`
}

// predefined plan catalog; custom plans are negotiated per account and
// resolved from the account's stored draft instead.
var catalog = map[PlanName]PlanTerms{
	PlanBasic: {
		Name:  PlanBasic,
		Price: 19.99,
		Details: PlanDetails{
			MaxEmployees:       10,
			MaxShiftTypes:      2,
			MaxMonthlyRequests: 10,
			Support:            "basic",
		},
	},
	PlanStandard: {
		Name:  PlanStandard,
		Price: 49.99,
		Details: PlanDetails{
			MaxEmployees:       20,
			MaxShiftTypes:      3,
			MaxMonthlyRequests: 20,
			EmailNotifications: true,
			Support:            "standard",
		},
	},
	PlanPremium: {
		Name:  PlanPremium,
		Price: 99.99,
		Details: PlanDetails{
			MaxEmployees:       999,
			MaxShiftTypes:      999,
			MaxMonthlyRequests: 999,
			ExportExcel:        true,
			EmailNotifications: true,
			Support:            "priority",
		},
	},
}

// LookupPlan returns the catalog terms for a predefined plan name.
func LookupPlan(name PlanName) (PlanTerms, error) {
	terms, ok := catalog[name]
	if !ok {
		return PlanTerms{}, fmt.Errorf("unknown plan: %q", name)
	}
	return terms, nil
}

// PredefinedPlans lists the public catalog (excludes custom).
func PredefinedPlans() []PlanTerms {
	return []PlanTerms{catalog[PlanBasic], catalog[PlanStandard], catalog[PlanPremium]}
}

// IsPredefined reports whether name is a plan from the public catalog.
func IsPredefined(name PlanName) bool {
	_, ok := catalog[name]
	return ok
}
