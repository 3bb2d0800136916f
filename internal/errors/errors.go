// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// Business outcomes of the interaction engine. These are expected results,
// returned as typed values and never logged as faults; the HTTP layer maps
// them with Status/Code.
var (
	ErrLikeLimitReached    = errors.New("daily like limit reached")
	ErrDateLimitReached    = errors.New("daily date request limit reached")
	ErrDuplicateRequest    = errors.New("a live date request already exists for this pair")
	ErrAlreadyResolved     = errors.New("date request already resolved")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotEligible         = errors.New("chat is not eligible for reopening")
	ErrBlocked             = errors.New("interaction is blocked between these users")
	ErrNotFound            = errors.New("record not found")
)

// Is re-exports errors.Is so callers don't need both packages.
func Is(err, target error) bool { return errors.Is(err, target) }

// Code returns the stable machine-readable code for a business error, or
// "INTERNAL" for anything else.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrLikeLimitReached):
		return "LIKE_LIMIT_REACHED"
	case errors.Is(err, ErrDateLimitReached):
		return "DATE_LIMIT_REACHED"
	case errors.Is(err, ErrDuplicateRequest):
		return "DUPLICATE_REQUEST"
	case errors.Is(err, ErrAlreadyResolved):
		return "ALREADY_RESOLVED"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrNotEligible):
		return "NOT_ELIGIBLE"
	case errors.Is(err, ErrBlocked):
		return "BLOCKED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// IsBusiness reports whether err is an expected engine outcome rather than
// an infrastructure fault.
func IsBusiness(err error) bool {
	return Code(err) != "INTERNAL"
}

// Invalid marks bad caller input. The HTTP layer maps it to 400.
type Invalid struct{ Msg string }

func (e *Invalid) Error() string { return e.Msg }

// InvalidArgument creates an input-validation error.
// Use this in the service layer for bad input.
func InvalidArgument(format string, args ...any) error {
	return &Invalid{Msg: fmt.Sprintf(format, args...)}
}

// IsInvalid reports whether err is an input-validation error.
func IsInvalid(err error) bool {
	var inv *Invalid
	return errors.As(err, &inv)
}
