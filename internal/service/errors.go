package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for an unknown identifier and for a wrong
	// password alike, so callers cannot learn which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStudentNotFound is returned when the token's student no longer exists.
	ErrStudentNotFound = errors.New("student not found")
	// ErrTeacherNotFound is returned when the token's teacher no longer exists.
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrAdminNotFound is returned when the token's admin no longer exists.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrComplaintNotFound covers both a missing complaint and one owned by someone else.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrInvalidStatus is returned for a status outside Pending, In Progress, Resolved.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrRegistrationClosed is returned when admin registration is not permitted.
	ErrRegistrationClosed = errors.New("admin registration is closed")
)

// ConflictError reports which unique field an account registration collided on.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// ValidationError reports malformed input that passed request binding.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
