package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeReference    ErrorType = "REFERENCE_ERROR"
	ErrorTypeStorage      ErrorType = "STORAGE_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidPosition  ErrorCode = "INVALID_POSITION"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeUserNotApproved    ErrorCode = "USER_NOT_APPROVED"

	ErrCodeAccessDenied    ErrorCode = "ACCESS_DENIED"
	ErrCodeProjectInactive ErrorCode = "PROJECT_INACTIVE"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeBoardNotFound   ErrorCode = "BOARD_NOT_FOUND"
	ErrCodeColumnNotFound  ErrorCode = "COLUMN_NOT_FOUND"
	ErrCodeTaskNotFound    ErrorCode = "TASK_NOT_FOUND"
	ErrCodeMemberNotFound  ErrorCode = "MEMBER_NOT_FOUND"

	ErrCodeDuplicateEmail  ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeDuplicateMember ErrorCode = "DUPLICATE_MEMBER"
	ErrCodeDuplicateEntry  ErrorCode = "DUPLICATE_ENTRY"

	ErrCodeDanglingReference ErrorCode = "DANGLING_REFERENCE"
	ErrCodeStorageFailure    ErrorCode = "STORAGE_FAILURE"
)

// AppError is the single error shape that crosses layer boundaries. The
// Cause carries raw engine errors for logs; it is never serialized.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying the underlying error, so the shared
// sentinels above stay immutable.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewReferenceError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeReference,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewStorageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Code:       ErrCodeStorageFailure,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrSessionExpired     = NewUnauthorizedError("session has expired", ErrCodeSessionExpired)
	ErrUserNotApproved    = NewForbiddenError("user account is not approved", ErrCodeUserNotApproved)

	ErrAccessDenied    = NewForbiddenError("access denied", ErrCodeAccessDenied)
	ErrProjectInactive = NewForbiddenError("project is deactivated", ErrCodeProjectInactive)

	ErrUserNotFound    = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrProjectNotFound = NewNotFoundError("project not found", ErrCodeProjectNotFound)
	ErrBoardNotFound   = NewNotFoundError("board not found", ErrCodeBoardNotFound)
	ErrColumnNotFound  = NewNotFoundError("column not found", ErrCodeColumnNotFound)
	ErrTaskNotFound    = NewNotFoundError("task not found", ErrCodeTaskNotFound)
	ErrMemberNotFound  = NewNotFoundError("project member not found", ErrCodeMemberNotFound)

	ErrDuplicateEmail  = NewConflictError("email is already registered", ErrCodeDuplicateEmail)
	ErrDuplicateMember = NewConflictError("user is already a project member", ErrCodeDuplicateMember)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
	})
}
