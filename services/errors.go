package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeUnauthenticated  ErrorType = "unauthenticated"
	ErrorTypeDenied           ErrorType = "denied"
	ErrorTypeUnconfigured     ErrorType = "unconfigured"
	ErrorTypeStoreUnavailable ErrorType = "store_unavailable"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeInternal         ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
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

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrGridNotFound         = NewDomainError(ErrorTypeNotFound, "grid not found", nil)
	ErrRegistrationNotFound = NewDomainError(ErrorTypeNotFound, "volunteer registration not found", nil)
	ErrDonationNotFound     = NewDomainError(ErrorTypeNotFound, "supply donation not found", nil)
	ErrAnnouncementNotFound = NewDomainError(ErrorTypeNotFound, "announcement not found", nil)
	ErrUserNotFound         = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrRuleNotFound         = NewDomainError(ErrorTypeNotFound, "permission rule not found", nil)

	// Validation Errors
	ErrInvalidInput  = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidRole   = NewDomainError(ErrorTypeValidation, "invalid role", nil)
	ErrInvalidAction = NewDomainError(ErrorTypeValidation, "invalid action", nil)
	ErrInvalidKind   = NewDomainError(ErrorTypeValidation, "invalid resource kind", nil)

	// Authorization Errors. Unauthenticated, denied and unconfigured differ
	// only in logged detail; callers surface them identically.
	ErrUnauthenticated = NewDomainError(ErrorTypeUnauthenticated, "no authenticated actor", nil)
	ErrDenied          = NewDomainError(ErrorTypeDenied, "access denied", nil)
	ErrNotOwner        = NewDomainError(ErrorTypeDenied, "actor does not own the resource", nil)
	ErrUnconfigured    = NewDomainError(ErrorTypeUnconfigured, "no permission rule configured", nil)

	// Store Errors. Recovered locally via the fallback matrix, never
	// surfaced to the end user.
	ErrStoreUnavailable = NewDomainError(ErrorTypeStoreUnavailable, "permission store unavailable", nil)

	// Conflict Errors
	ErrDuplicateRule  = NewDomainError(ErrorTypeConflict, "permission rule already exists for role and resource kind", nil)
	ErrCascadeBlocked = NewDomainError(ErrorTypeConflict, "dependent records block permanent deletion", nil)
	ErrDuplicateEmail = NewDomainError(ErrorTypeConflict, "email already exists", nil)

	// Internal Errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)
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

// IsUnauthenticatedError checks if an error is an unauthenticated error
func IsUnauthenticatedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnauthenticated
	}
	return false
}

// IsDeniedError checks if an error is a denied error
func IsDeniedError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeDenied
	}
	return false
}

// IsUnconfiguredError checks if an error is an unconfigured error
func IsUnconfiguredError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnconfigured
	}
	return false
}

// IsRejection reports whether the error is any of the deny-class outcomes
// that are externally indistinguishable.
func IsRejection(err error) bool {
	return IsUnauthenticatedError(err) || IsDeniedError(err) || IsUnconfiguredError(err)
}

// IsStoreUnavailableError checks if an error is a store availability error
func IsStoreUnavailableError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeStoreUnavailable
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

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
