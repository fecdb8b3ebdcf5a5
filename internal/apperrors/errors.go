package apperrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a request conflicts with state already recorded,
// e.g. an idempotency key reused with a different payload.
var ErrConflict = errors.New("conflicting request")

// ErrInvalidAmount indicates a non-positive or malformed monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates a withdrawal larger than the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrPolicyViolation indicates the customer type may not open the requested account type.
var ErrPolicyViolation = errors.New("policy violation")

// ErrStorage indicates the underlying store was unavailable or a write failed.
// Operations failing with ErrStorage left no partial state behind and may be retried.
var ErrStorage = errors.New("storage failure")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AppError carries a sentinel kind together with the underlying cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

// NewAppError creates an AppError of the given kind.
func NewAppError(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NewStorageError wraps a store failure.
func NewStorageError(message string, err error) *AppError {
	return NewAppError(ErrStorage, message, err)
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AmountError reports a rejected amount. Available is set for overdraft rejections.
type AmountError struct {
	Kind      error
	Amount    decimal.Decimal
	Available *decimal.Decimal
	Reason    string
}

// NewInvalidAmountError rejects amount for the given reason.
func NewInvalidAmountError(amount decimal.Decimal, reason string) *AmountError {
	return &AmountError{Kind: ErrInvalidAmount, Amount: amount, Reason: reason}
}

// NewInsufficientFundsError rejects a withdrawal of amount when only available can be drawn.
func NewInsufficientFundsError(amount, available decimal.Decimal) *AmountError {
	return &AmountError{Kind: ErrInsufficientFunds, Amount: amount, Available: &available}
}

func (e *AmountError) Error() string {
	switch {
	case e.Available != nil:
		return fmt.Sprintf("%s: amount %s exceeds available %s", e.Kind, e.Amount.StringFixed(2), e.Available.StringFixed(2))
	case e.Reason != "":
		return fmt.Sprintf("%s: %s (amount %s)", e.Kind, e.Reason, e.Amount.String())
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Amount.String())
	}
}

func (e *AmountError) Unwrap() error {
	return e.Kind
}

// Kind returns a stable, machine readable name for the error's category.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrPolicyViolation):
		return "policy_violation"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, ErrStorage):
		return "storage_failure"
	default:
		return "internal"
	}
}

// IsRetryable reports whether the failed operation may safely be retried as is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage) ||
		errors.Is(err, context.DeadlineExceeded)
}
