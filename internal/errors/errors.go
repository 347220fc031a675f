package errors

import (
	"errors"
	"net/http"
	"strings"

	"complaintdesk/internal/service"
)

// Machine-readable error codes carried in the failure envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInvalidID          = "INVALID_ID"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenMissing       = "TOKEN_MISSING"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeForbidden          = "FORBIDDEN"
	CodeRegistrationClosed = "REGISTRATION_CLOSED"
	CodeDuplicate          = "DUPLICATE_FIELD"
	CodeStudentNotFound    = "STUDENT_NOT_FOUND"
	CodeTeacherNotFound    = "TEACHER_NOT_FOUND"
	CodeAdminNotFound      = "ADMIN_NOT_FOUND"
	CodeComplaintNotFound  = "COMPLAINT_NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)

// Response is the success envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
	// Cause is logged for 5xx responses and never sent to the client.
	Cause error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// Success wraps data in the success envelope.
func Success(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// CodeForStatus derives a code for errors raised by the framework itself,
// e.g. 405 becomes METHOD_NOT_ALLOWED.
func CodeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validation *service.ValidationError
	if errors.As(err, &validation) {
		return NewHTTPError(http.StatusBadRequest, validation.Message, CodeValidation)
	}
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		e := NewHTTPError(http.StatusConflict, conflict.Error(), CodeDuplicate)
		e.Field = conflict.Field
		return e
	}

	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), CodeInvalidStatus)
	case errors.Is(err, service.ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), CodeInvalidCredentials)
	case errors.Is(err, service.ErrRegistrationClosed):
		return NewHTTPError(http.StatusForbidden, err.Error(), CodeRegistrationClosed)
	case errors.Is(err, service.ErrStudentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), CodeStudentNotFound)
	case errors.Is(err, service.ErrTeacherNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), CodeTeacherNotFound)
	case errors.Is(err, service.ErrAdminNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), CodeAdminNotFound)
	case errors.Is(err, service.ErrComplaintNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), CodeComplaintNotFound)
	default:
		e := NewHTTPError(http.StatusInternalServerError, "internal server error", CodeInternal)
		e.Cause = err
		return e
	}
}
