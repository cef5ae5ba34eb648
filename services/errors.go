package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// Stable machine-readable error codes returned to clients
const (
	CodeAuthorizationRequired = "AUTHORIZATION_REQUIRED"
	CodeBadCredentials        = "INCORRECT_USERNAME_OR_PASSWORD_ENTERED"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeUserNotFound          = "USER_IS_NOT_FOUND"
	CodePasswordsDoNotMatch   = "PASSWORD_DO_NOT_MATCH"
	CodePasswordTooWeak       = "PASSWORD_FAIL_CONDITIONS"
	CodeCannotDeleteSelf      = "YOU_CANNOT_DELETE_YOURSELF"
	CodeUnknownError          = "UNKNOWN_ERROR"
)

// DomainError is a structured error carrying the category (mapped to an HTTP
// status at the boundary) and a stable machine-readable code. Internal logic
// returns these instead of throwing across component boundaries.
type DomainError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is: two domain errors match on type and code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, code, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	// Authentication
	ErrBadCredentials = NewDomainError(ErrorTypeValidation, CodeBadCredentials, "incorrect username or password entered", nil)
	ErrMissingToken   = NewDomainError(ErrorTypeUnauthorized, CodeAuthorizationRequired, "authorization required", nil)
	ErrInvalidToken   = NewDomainError(ErrorTypeUnauthorized, CodeInvalidToken, "invalid authentication token", nil)
	ErrTokenExpired   = NewDomainError(ErrorTypeUnauthorized, CodeTokenExpired, "authentication token expired", nil)
	ErrUserNotFound   = NewDomainError(ErrorTypeUnauthorized, CodeUserNotFound, "user is not found", nil)

	// Refresh/logout cookie absence: same code, different status per endpoint
	ErrRefreshCookieMissing = NewDomainError(ErrorTypeValidation, CodeAuthorizationRequired, "authorization required", nil)
	ErrLogoutCookieMissing  = NewDomainError(ErrorTypeForbidden, CodeAuthorizationRequired, "authorization required", nil)

	// User management
	ErrPasswordsDoNotMatch = NewDomainError(ErrorTypeValidation, CodePasswordsDoNotMatch, "passwords do not match", nil)
	ErrPasswordTooWeak     = NewDomainError(ErrorTypeValidation, CodePasswordTooWeak, "password does not satisfy strength conditions", nil)
	ErrCannotDeleteSelf    = NewDomainError(ErrorTypeValidation, CodeCannotDeleteSelf, "you cannot delete yourself", nil)
	ErrUserMissing         = NewDomainError(ErrorTypeNotFound, CodeUserNotFound, "user is not found", nil)

	// Internal
	ErrInternal = NewDomainError(ErrorTypeInternal, CodeUnknownError, "internal server error", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnauthorized
	}
	return false
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeForbidden
	}
	return false
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeConflict
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorCode returns the machine-readable code of a domain error, or
// CodeUnknownError if the error carries no code.
func GetErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code
	}
	return CodeUnknownError
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, CodeUnknownError, message, err)
}
