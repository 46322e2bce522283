package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is authenticated but not permitted to act.
var ErrForbidden = errors.New("forbidden")

// ErrRateUnavailable indicates that the upstream exchange-rate service failed
// or returned a non-success response.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrGrayPeriodExpired indicates that the cancellation/conversion window for a
// transaction has elapsed.
var ErrGrayPeriodExpired = errors.New("gray period expired")

// ErrCurrencyNotStocked indicates the vendor holds no inventory entry for a
// currency required by the transaction.
var ErrCurrencyNotStocked = errors.New("currency not found in inventory")

// ErrInsufficientInventory indicates the vendor's available amount cannot
// cover the transaction.
var ErrInsufficientInventory = errors.New("insufficient currency in inventory")

// ErrAlreadyFulfilled indicates the transaction is missing or no longer
// pending, so it cannot be fulfilled.
var ErrAlreadyFulfilled = errors.New("transaction not found or already fulfilled")

// ErrConflict indicates a concurrent modification was detected. The settlement
// path retries these a bounded number of times.
var ErrConflict = errors.New("concurrent modification conflict")

// AppError carries an HTTP-ish status code alongside a message and the
// underlying cause. Repositories use it for infrastructure failures that do
// not map to a sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an error that matches ErrNotFound via errors.Is
// while keeping a resource-specific message.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}
