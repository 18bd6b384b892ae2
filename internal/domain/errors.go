package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors for reporting at the boundary.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindInfrastructure ErrorKind = "infrastructure"
)

// Error is a domain error with a stable machine-readable code.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// Validation errors
	ErrTransferToSameAccount        = newError(KindValidation, "TRANSFER_TO_SAME_ACCOUNT", "cannot transfer to same account")
	ErrInvalidAmount                = newError(KindValidation, "INVALID_AMOUNT", "invalid amount")
	ErrDescriptionTooLong           = newError(KindValidation, "DESCRIPTION_TOO_LONG", "description is too long")
	ErrDescriptionInvalidCharacters = newError(KindValidation, "DESCRIPTION_INVALID_CHARACTERS", "description contains invalid characters")
	ErrInvalidCurrency              = newError(KindValidation, "INVALID_CURRENCY", "invalid currency code")
	ErrCurrencyMismatch             = newError(KindValidation, "CURRENCY_MISMATCH", "currencies do not match")
	ErrInvalidAccountName           = newError(KindValidation, "INVALID_ACCOUNT_NAME", "invalid account name")
	ErrMissingGroup                 = newError(KindValidation, "MISSING_GROUP", "group id is required")

	// Not found errors
	ErrAccountNotFound  = newError(KindNotFound, "ACCOUNT_NOT_FOUND", "account not found")
	ErrTransferNotFound = newError(KindNotFound, "TRANSFER_NOT_FOUND", "transfer not found")

	// Conflict errors
	ErrInsufficientFunds = newError(KindConflict, "INSUFFICIENT_FUNDS", "insufficient funds")
	ErrRateUnavailable   = newError(KindConflict, "RATE_UNAVAILABLE", "exchange rate unavailable")
	ErrAccountNotEmpty   = newError(KindConflict, "ACCOUNT_NOT_EMPTY", "account balance must be zero to delete")

	// ErrInternal is reported for anything that is not a domain error.
	ErrInternal = newError(KindInfrastructure, "INTERNAL_ERROR", "internal error")
)

// AsError extracts the domain error from err. Unknown errors collapse to ErrInternal
// and ok is false.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return ErrInternal, false
}

// withDetail wraps a sentinel with additional context while keeping its code.
func withDetail(base *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}
