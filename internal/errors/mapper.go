// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/pulsedate/backend/internal/txn"
)

// Status converts engine/repo/infra errors into HTTP status codes.
// Keeps handlers clean by centralizing the mapping.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrLikeLimitReached), errors.Is(err, ErrDateLimitReached):
		return http.StatusTooManyRequests

	case errors.Is(err, ErrDuplicateRequest),
		errors.Is(err, ErrAlreadyResolved),
		errors.Is(err, ErrNotEligible):
		return http.StatusConflict

	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusPaymentRequired

	case errors.Is(err, ErrBlocked):
		return http.StatusForbidden

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case IsInvalid(err):
		return http.StatusBadRequest

	case errors.Is(err, txn.ErrRetryExhausted):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}
