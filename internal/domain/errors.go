package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Lookup failures
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrIntentNotFound       = errors.New("payment intent not found")
	ErrRecordNotFound       = errors.New("payment record not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrRoomNotFound         = errors.New("room not found")

	// Payment errors
	ErrSignatureMismatch = errors.New("payment signature verification failed")
	ErrDuplicatePayment  = errors.New("payment already recorded")
	ErrIntentClosed      = errors.New("payment intent already settled")
	ErrUnknownPlan       = errors.New("unknown subscription plan")

	// Workflow errors
	ErrExitConflict = errors.New("tenant is not in the expected exit state")

	// Authorization errors
	ErrUnauthorizedActor = errors.New("actor is not authorized for this operation")
)

// ValidationError carries a client-fixable field problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
