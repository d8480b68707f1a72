package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// CodeValidation is raised locally, before any network call.
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	// CodeUnauthorized means the backend rejected the bearer credential (HTTP 401).
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// CodeServer covers every other non-2xx backend response.
	CodeServer ErrorCode = "SERVER_ERROR"
	// CodeNetwork means the request never completed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	CodeInvalidState ErrorCode = "INVALID_STATE"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// SessionExpiredMessage is what the user sees after a 401.
const SessionExpiredMessage = "Session expired. Please log in again."

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Status is the HTTP status reported by the backend, zero for local errors.
	Status int   `json:"-"`
	Err    error `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another *DomainError by code, so errors.Is(err, &DomainError{Code: CodeUnauthorized}) works.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewUnauthorizedError() *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: SessionExpiredMessage, Status: 401}
}

// NewServerError carries the server-provided message, or fallback when the server gave none.
func NewServerError(status int, serverMessage, fallback string) *DomainError {
	msg := serverMessage
	if msg == "" {
		msg = fallback
	}
	return &DomainError{Code: CodeServer, Message: msg, Status: status}
}

func NewNetworkError(err error) *DomainError {
	return NewError(CodeNetwork, fmt.Sprintf("Network error: %v", err), err)
}

func NewInvalidStateError(message string) *DomainError {
	return NewError(CodeInvalidState, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// CodeOf returns the code of the first DomainError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

func IsUnauthorized(err error) bool {
	return CodeOf(err) == CodeUnauthorized
}

// MessageOf renders err the way the user should see it.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
