package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict: resource already exists")
	ErrInternal           = errors.New("internal server error")
	ErrRateLimited        = errors.New("too many requests")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Subscription & quota errors
var (
	ErrAlreadyProcessed      = errors.New("checkout session was already processed")
	ErrNoActiveSubscription  = errors.New("no active subscription")
	ErrQuotaExceeded         = errors.New("max number of schedule requests reached for this month")
	ErrDuplicateCustomPlan   = errors.New("account already has a custom plan")
	ErrInvalidPlanTransition = errors.New("subscription cannot be changed")
)

// ResourceLimitError reports which plan-capped resource was exceeded.
type ResourceLimitError struct {
	Resource string // "employees" or "shift types"
	Limit    int
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("maximum number of %s reached (limit %d)", e.Resource, e.Limit)
}

// NewResourceLimitError builds a ResourceLimitError for the given resource and cap.
func NewResourceLimitError(resource string, limit int) error {
	return &ResourceLimitError{Resource: resource, Limit: limit}
}

// IsResourceLimit reports whether err is a ResourceLimitError.
func IsResourceLimit(err error) bool {
	var rle *ResourceLimitError
	return errors.As(err, &rle)
}

// ProviderError wraps a billing provider (transport or remote) failure.
// Money may or may not have moved; callers must not swallow these.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("billing provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a provider-level failure for the given operation.
func NewProviderError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Op: op, Err: err}
}

// IsProvider reports whether err originated from the billing provider.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
