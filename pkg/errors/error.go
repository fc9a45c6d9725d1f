// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Malformed bars, invalid parameters, missing columns
//   - Data/Resource errors (200-299): Data not found, query failures, unavailable resources
//   - Indicator errors (300-399): Technical indicator calculation and lookup errors
//   - Feature errors (400-499): Feature contract and imputation errors
//   - Classifier errors (500-599): Model lookup, fitting and prediction errors
//   - Pipeline errors (600-699): Run configuration and orchestration errors
//   - IO errors (700-799): Reading inputs and writing outputs
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeMalformedBar, "close must be positive")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to read bars", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeSchemaMismatch) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientHistoryError reports a series shorter than the largest indicator window.
// The composer does not return it; it is logged and the run yields zero valid rows.
type InsufficientHistoryError struct {
	Required int // Minimum bars required for one valid row
	Actual   int // Bars available
	Message  string
}

// NewInsufficientHistoryError creates a new InsufficientHistoryError.
func NewInsufficientHistoryError(required, actual int) *InsufficientHistoryError {
	return &InsufficientHistoryError{
		Required: required,
		Actual:   actual,
		Message:  fmt.Sprintf("insufficient history: required %d bars, got %d", required, actual),
	}
}

// Error implements the error interface.
func (e *InsufficientHistoryError) Error() string {
	return e.Message
}

// IsInsufficientHistoryError checks if an error is an InsufficientHistoryError.
func IsInsufficientHistoryError(err error) bool {
	var insufficientErr *InsufficientHistoryError

	return errors.As(err, &insufficientErr)
}

// Stage names the pipeline step an error surfaced in.
type Stage string

const (
	StageLoad                 Stage = "load"
	StageBarValidation        Stage = "bar validation"
	StageIndicatorComputation Stage = "indicator computation"
	StageSchemaCheck          Stage = "schema check"
	StageImputation           Stage = "imputation"
	StageClassifier           Stage = "classifier"
	StageWrite                Stage = "write"
)

// PipelineError attaches the failing stage to an error so diagnostics can name it.
type PipelineError struct {
	Stage Stage
	Err   error
}

// NewPipelineError wraps err with the given stage. A nil err returns nil.
func NewPipelineError(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	return &PipelineError{Stage: stage, Err: err}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// GetStage returns the stage of the first PipelineError in err's chain.
func GetStage(err error) (Stage, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage, true
	}

	return "", false
}
