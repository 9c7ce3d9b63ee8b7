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

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// ErrInvariantViolation is the root of every error raised when a write would
// break a ledger invariant (unbalanced transaction, two current periods, ...).
var ErrInvariantViolation = errors.New("invariant violation")

// ErrStateError is the root of errors raised when an operation is not allowed
// in the current lifecycle state of a period.
var ErrStateError = errors.New("invalid state")

// ErrExternalDependency wraps failures reported by collaborators such as the
// document store or the lot registry.
var ErrExternalDependency = errors.New("external dependency failure")

// kindError is a named error that also matches its root with errors.Is.
type kindError struct {
	msg  string
	root error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.root }

func newKind(root error, msg string) error {
	return &kindError{msg: msg, root: root}
}

var (
	ErrDuplicateCode           = newKind(ErrDuplicate, "duplicate account code")
	ErrAccountInUse            = newKind(ErrConflict, "account is referenced by ledger data")
	ErrInvalidAmount           = newKind(ErrValidation, "invalid amount")
	ErrUnbalancedTransaction   = newKind(ErrInvariantViolation, "unbalanced transaction")
	ErrConflictingCounterparty = newKind(ErrInvariantViolation, "entry cannot reference both a lot and a supplier")
	ErrDuplicateCurrentPeriod  = newKind(ErrInvariantViolation, "more than one current period")
	ErrPeriodClosed            = newKind(ErrStateError, "fiscal period is closed")
	ErrAlreadyClosed           = newKind(ErrStateError, "fiscal period already closed")
	ErrNoCurrentPeriod         = newKind(ErrStateError, "no current fiscal period")
	ErrConcurrentPeriodChange  = newKind(ErrConflict, "concurrent change of the current period")
	ErrDocumentRejected        = newKind(ErrExternalDependency, "supporting document rejected")
)

// AppError carries an HTTP status alongside a wrapped cause. It is used for
// infrastructure failures that surface directly to API callers.
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

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError builds an error that wraps ErrNotFound and names the entity.
func NewNotFoundError(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}
