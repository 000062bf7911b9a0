package errors

import (
	"errors"
	"fmt"
)

// Error types for classifying kill-tree failures

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInvalidProcessID ErrorType = "invalid_process_id"
	ErrorTypeEnumeration      ErrorType = "enumeration"
	ErrorTypeTermination      ErrorType = "termination"
	ErrorTypeConversion       ErrorType = "conversion"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeIO               ErrorType = "io"
	ErrorTypeCancelled        ErrorType = "cancelled"
	ErrorTypeInternal         ErrorType = "internal"
)

// DomainError represents a structured error with type and context
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	if other, ok := target.(*DomainError); ok {
		return e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errorType ErrorType, message string, cause error) *DomainError {
	return &DomainError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewInvalidProcessIDError reports an id that is out of range or protected by the OS.
func NewInvalidProcessIDError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInvalidProcessID, message, cause)
}

// NewEnumerationError reports that process listing could not start.
func NewEnumerationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeEnumeration, message, cause)
}

// NewTerminationError reports a hard failure terminating a process.
func NewTerminationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeTermination, message, cause)
}

func NewConversionError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeConversion, message, cause)
}

func NewValidationError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, cause)
}

func NewIOError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeIO, message, cause)
}

func NewCancelledError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeCancelled, message, cause)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(ErrorTypeInternal, message, cause)
}

// Error checking helpers
func IsInvalidProcessIDError(err error) bool {
	return hasType(err, ErrorTypeInvalidProcessID)
}

func IsEnumerationError(err error) bool {
	return hasType(err, ErrorTypeEnumeration)
}

func IsTerminationError(err error) bool {
	return hasType(err, ErrorTypeTermination)
}

func IsConversionError(err error) bool {
	return hasType(err, ErrorTypeConversion)
}

func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

func IsIOError(err error) bool {
	return hasType(err, ErrorTypeIO)
}

func IsCancelledError(err error) bool {
	return hasType(err, ErrorTypeCancelled)
}

func IsInternalError(err error) bool {
	return hasType(err, ErrorTypeInternal)
}

// hasType walks the whole cause chain, so a conversion error wrapped into a
// termination error answers true to both checks.
func hasType(err error, errorType ErrorType) bool {
	return errors.Is(err, &DomainError{Type: errorType})
}

// Message returns the human-readable message of the outermost domain error,
// without the type prefix and cause chain. Falls back to err.Error().
func Message(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
