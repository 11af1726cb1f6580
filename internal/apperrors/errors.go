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

// ErrForbidden indicates that the actor lacks ownership or role for the operation.
var ErrForbidden = errors.New("access denied")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition indicates a loan status change that is not permitted
// from the loan's current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInsufficientBalance indicates a shopkeeper token balance below the
// amount required by the operation.
var ErrInsufficientBalance = errors.New("insufficient token balance")

// ErrConflict indicates a concurrent modification was detected (version
// mismatch on write). Callers may retry the whole read-modify-write.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrInternal indicates an unexpected failure in a collaborator (storage,
// notification dispatch) that is not the caller's fault.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and a
// human-readable message safe to surface to callers.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
