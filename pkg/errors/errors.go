package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Manifest resolver errors
	ErrUnknownApplication ErrorCode = "UNKNOWN_APPLICATION"
	ErrManifestParse      ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid    ErrorCode = "MANIFEST_INVALID"

	// Storage backend errors
	ErrBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrEngineUnknown      ErrorCode = "ENGINE_UNKNOWN"
	ErrEngineLocate       ErrorCode = "ENGINE_LOCATE"

	// Sync engine errors
	ErrConflict     ErrorCode = "CONFLICT"
	ErrPartialWrite ErrorCode = "PARTIAL_WRITE"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrFileDelete    ErrorCode = "FILE_DELETE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// Process exit codes for the error taxonomy surfaced by the CLI. Codes are
// stable so scripts and CI checks can branch on them.
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitUnknownApplication = 3
	ExitConflict           = 4
	ExitBackendUnavailable = 5
	ExitPartialWrite       = 6
)

// MackupError represents a structured error with code and details
type MackupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MackupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MackupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MackupError) Is(target error) bool {
	var targetErr *MackupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MackupError with the given code and message
func New(code ErrorCode, message string) *MackupError {
	return &MackupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MackupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MackupError {
	return &MackupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MackupError
func Wrap(err error, code ErrorCode, message string) *MackupError {
	if err == nil {
		return nil
	}
	return &MackupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MackupError {
	if err == nil {
		return nil
	}
	return &MackupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MackupError) WithDetail(key string, value interface{}) *MackupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mackupErr *MackupError
	if errors.As(err, &mackupErr) {
		return mackupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a
// MackupError
func GetErrorCode(err error) ErrorCode {
	var mackupErr *MackupError
	if errors.As(err, &mackupErr) {
		return mackupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a
// MackupError
func GetErrorDetails(err error) map[string]interface{} {
	var mackupErr *MackupError
	if errors.As(err, &mackupErr) {
		return mackupErr.Details
	}
	return nil
}

// ExitCode maps an error to the process exit code the CLI reports. Errors
// outside the taxonomy map to the generic failure code; nil maps to zero.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetErrorCode(err) {
	case ErrUnknownApplication:
		return ExitUnknownApplication
	case ErrConflict:
		return ExitConflict
	case ErrBackendUnavailable:
		return ExitBackendUnavailable
	case ErrPartialWrite:
		return ExitPartialWrite
	default:
		return ExitFailure
	}
}
