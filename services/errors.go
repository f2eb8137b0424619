package services

import (
	"errors"
	"fmt"
)

var (
	// Inventory conflicts are expected outcomes: the caller re-polls
	// availability and retries with a different resource.
	ErrSeatTaken   = errors.New("seat is no longer available")
	ErrLockerTaken = errors.New("locker is no longer available")

	ErrCrossTenant = errors.New("resource does not belong to this library or branch")

	// ErrPricing indicates a negative or otherwise invalid computed amount,
	// which means broken plan/fee data rather than bad user input.
	ErrPricing = errors.New("computed order amount is invalid")

	ErrValidation = errors.New("invalid booking input")

	ErrAlreadyFinalized = errors.New("payment has already been finalized")
	ErrInvalidSignature = errors.New("gateway signature mismatch")

	// ErrBookingReleased means the booking's hold lapsed and was swept before
	// the payment settled; the resources may already belong to someone else.
	ErrBookingReleased = errors.New("booking was released before payment settled")
)

// Promotion rejection reason codes, in the order they are evaluated.
const (
	PromoNotFound        = "not_found"
	PromoInactive        = "inactive"
	PromoExpired         = "outside_validity_window"
	PromoMinOrder        = "below_min_order_value"
	PromoScopeMismatch   = "scope_mismatch"
	PromoUsageExhausted  = "usage_limit_exhausted"
	PromoPerUserExceeded = "per_user_limit_exhausted"
)

// PromoRejection carries the first failing check so the client can show the
// user why their code did not apply.
type PromoRejection struct {
	Reason  string
	Message string
}

func (e *PromoRejection) Error() string {
	return e.Message
}

func rejectPromo(reason, format string, args ...interface{}) *PromoRejection {
	return &PromoRejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}
