package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the current state of a resource does not allow the requested change.
var ErrConflict = errors.New("precondition failed")

// ErrConcurrency indicates a lock wait or serialization failure caused by a simultaneous writer.
// Callers may retry; the ledger never retries on its own.
var ErrConcurrency = errors.New("concurrent modification")

// ErrInternal indicates an unexpected failure in a lower layer.
var ErrInternal = errors.New("internal error")

// Ledger preconditions. Each wraps ErrConflict.
var (
	ErrInsufficientUnassignedAmount = fmt.Errorf("%w: INSUFFICIENT_UNASSIGNED_AMOUNT", ErrConflict)
	ErrFolioNotOpen                 = fmt.Errorf("%w: folio is not open", ErrConflict)
	ErrAlreadyVoided                = fmt.Errorf("%w: transaction already voided", ErrConflict)
	ErrNotVoidable                  = fmt.Errorf("%w: only payment transactions can be voided", ErrConflict)
	ErrNotAssignable                = fmt.Errorf("%w: transaction cannot take part in an assignment", ErrConflict)
	ErrNotPending                   = fmt.Errorf("%w: transaction is not pending", ErrConflict)
	ErrOutstandingBalance           = fmt.Errorf("%w: folio balance must be zero to close", ErrConflict)
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
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

// Is lets server-side AppErrors match ErrInternal and client-side ones match ErrValidation.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrInternal:
		return e.Code >= http.StatusInternalServerError
	case ErrValidation:
		return e.Code == http.StatusBadRequest
	}
	return false
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError reports a missing entity by kind and id.
func NewNotFoundError(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}

// NewValidationError wraps ErrValidation with a caller-facing message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// AuditLogError reports that a financial write committed but its audit
// entry could not be appended. It is returned alongside a valid result.
type AuditLogError struct {
	Err     error
	Action  string
	Message string
}

func (e *AuditLogError) Error() string {
	return e.Message
}

func (e *AuditLogError) Unwrap() error {
	return e.Err
}

// WrapAuditLogError returns nil when err is nil.
func WrapAuditLogError(action string, err error) error {
	if err == nil {
		return nil
	}
	return &AuditLogError{
		Err:     err,
		Action:  action,
		Message: fmt.Sprintf("%s recorded but audit log entry could not be written (%s)", action, err.Error()),
	}
}

// IsAuditWarning reports whether err is only an audit-log warning.
func IsAuditWarning(err error) bool {
	var auditErr *AuditLogError
	return errors.As(err, &auditErr)
}
