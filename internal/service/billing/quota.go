// internal/service/billing/quota.go
package billing

import (
	"context"
	"errors"
	"fmt"

	"shiftcare-service/internal/domain/billing"
	xerrors "shiftcare-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CheckQuota fails with ErrNoActiveSubscription when the account has no
// usable subscription and with ErrQuotaExceeded when this month's request
// count has reached the plan's cap. A counter row left over from an earlier
// month counts as zero; it is not rewritten here.
func (s *BillingService) CheckQuota(ctx context.Context, accountID int64) error {
	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return err
	}
	if sub == nil {
		return xerrors.ErrNoActiveSubscription
	}

	count, err := s.ScheduleRequestCount(ctx, accountID)
	if err != nil {
		return err
	}
	if count >= sub.Details.MaxMonthlyRequests {
		return xerrors.ErrQuotaExceeded
	}
	return nil
}

// IncrementQuota records one consumed schedule request. Called only after
// the guarded action succeeded. The row is locked so concurrent mutations
// for one account serialize; a stale month restarts the counter at 1.
func (s *BillingService) IncrementQuota(ctx context.Context, accountID int64) error {
	month := int(s.now().Month())

	if err := s.usage.Create(ctx, accountID, month); err != nil {
		return fmt.Errorf("failed to seed usage counter: %w", err)
	}

	return s.tx.InTx(ctx, func(tx pgx.Tx) error {
		counter, err := s.usage.Increment(ctx, tx, accountID, month)
		if err != nil {
			return fmt.Errorf("failed to increment usage counter: %w", err)
		}
		s.logger.Debug("schedule request recorded",
			zap.Int64("account_id", accountID),
			zap.Int("num_requests", counter.NumRequests),
			zap.Int("month", counter.Month))
		return nil
	})
}

// ScheduleRequestCount returns the effective number of schedule requests the
// account has consumed this month.
func (s *BillingService) ScheduleRequestCount(ctx context.Context, accountID int64) (int, error) {
	counter, err := s.usage.Get(ctx, accountID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load usage counter: %w", err)
	}
	return counter.EffectiveCount(int(s.now().Month())), nil
}

// CheckAccountLimits is the pre-flight guard before a schedule-generation
// cycle: employee count, then shift-type count, then quota. Any failure
// aborts with no side effects.
func (s *BillingService) CheckAccountLimits(ctx context.Context, accountID int64) error {
	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return err
	}
	if sub == nil {
		return xerrors.ErrNoActiveSubscription
	}

	empCount, err := s.employees.CountByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count employees: %w", err)
	}
	if empCount > sub.Details.MaxEmployees {
		return xerrors.NewResourceLimitError("employees", sub.Details.MaxEmployees)
	}

	shiftCount, err := s.shifts.CountByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count shift types: %w", err)
	}
	if shiftCount > sub.Details.MaxShiftTypes {
		return xerrors.NewResourceLimitError("shift types", sub.Details.MaxShiftTypes)
	}

	return s.CheckQuota(ctx, accountID)
}

// CheckResourceCapacity guards creation of one more employee or shift type
// against the active plan's cap.
func (s *BillingService) CheckResourceCapacity(ctx context.Context, accountID int64, resource string) error {
	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return err
	}
	if sub == nil {
		return xerrors.ErrNoActiveSubscription
	}

	var counter ResourceCounter
	var limit int
	switch resource {
	case ResourceEmployees:
		counter, limit = s.employees, sub.Details.MaxEmployees
	case ResourceShiftTypes:
		counter, limit = s.shifts, sub.Details.MaxShiftTypes
	default:
		return fmt.Errorf("unknown resource %q", resource)
	}

	count, err := counter.CountByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", resource, err)
	}
	if count >= limit {
		return xerrors.NewResourceLimitError(resource, limit)
	}
	return nil
}

// Resource names accepted by CheckResourceCapacity.
const (
	ResourceEmployees  = "employees"
	ResourceShiftTypes = "shift types"
)

// ActivePlanDetails exposes the resolved plan limits for read endpoints.
func (s *BillingService) ActivePlanDetails(ctx context.Context, accountID int64) (*billing.PlanDetails, error) {
	sub, err := s.ResolveActiveSubscription(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, xerrors.ErrNoActiveSubscription
	}
	details := sub.Details
	return &details, nil
}
