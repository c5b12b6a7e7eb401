package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Conversation and storage errors
	ErrValidation          ErrorCode = "VALIDATION_ERROR"
	ErrLLMServiceError     ErrorCode = "LLM_SERVICE_ERROR"
	ErrExtractionAmbiguity ErrorCode = "EXTRACTION_AMBIGUITY"
	ErrPersistence         ErrorCode = "PERSISTENCE_ERROR"
	ErrDelivery            ErrorCode = "DELIVERY_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewValidationError(message string) *DomainError {
	return NewError(ErrValidation, message, nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

func NewExtractionAmbiguityError(message string) *DomainError {
	return NewError(ErrExtractionAmbiguity, message, nil)
}

func NewPersistenceError(operation string, err error) *DomainError {
	return NewError(ErrPersistence, fmt.Sprintf("Failed to %s", operation), err)
}

func NewDeliveryError(userID int64, err error) *DomainError {
	return NewError(ErrDelivery, fmt.Sprintf("Failed to notify user %d", userID), err)
}

// CodeOf returns the code of the first DomainError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// IsRecoverable reports whether a conversation error should be answered with a
// localized notice while the user stays in the current stage.
func IsRecoverable(err error) bool {
	switch CodeOf(err) {
	case ErrValidation, ErrLLMServiceError, ErrExtractionAmbiguity:
		return true
	}
	return false
}
