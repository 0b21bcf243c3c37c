// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details. It also
// includes utilities for converting to and from gRPC status errors.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Validation
	CodeUnknownPipeline  ErrorCode = "UNKNOWN_PIPELINE"
	CodeEmptyPipeline    ErrorCode = "EMPTY_PIPELINE"
	CodeInvalidTimeSpec  ErrorCode = "INVALID_TIME_SPEC"
	CodeInvalidSpaceSpec ErrorCode = "INVALID_SPACE_SPEC"
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"

	// Resolution
	CodeUnknownDataSource   ErrorCode = "UNKNOWN_DATA_SOURCE"
	CodeDuplicateDataSource ErrorCode = "DUPLICATE_DATA_SOURCE"

	// Fetch
	CodeFetchIO              ErrorCode = "FETCH_IO"
	CodeInvalidExtraSpec     ErrorCode = "INVALID_EXTRA_SPEC"
	CodeUnimplementedSeries  ErrorCode = "UNIMPLEMENTED_SERIES"
	CodeUnimplementedSpatial ErrorCode = "UNIMPLEMENTED_SPATIAL"
	CodeInvalidCache         ErrorCode = "INVALID_CACHE"

	// Kernel
	CodeKernelFailure ErrorCode = "KERNEL_FAILURE"
	CodeUnknownFlag   ErrorCode = "UNKNOWN_FLAG"

	// Config
	CodeUnknownCheck       ErrorCode = "UNKNOWN_CHECK"
	CodeUnprovidedCheck    ErrorCode = "UNPROVIDED_CHECK"
	CodeInvalidTestName    ErrorCode = "INVALID_TEST_NAME"
	CodeInvalidPipelineDef ErrorCode = "INVALID_PIPELINE_DEF"

	// General
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnimplemented ErrorCode = "UNIMPLEMENTED"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message,
// an optional field, additional details, an underlying cause, and a severity level.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field indicates which input field caused the error, if applicable.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface, returning a string representation of the error.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, msg, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the wrapped error, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GRPCStatus converts the application error into a gRPC status.Status. The
// textual message preserves the inner cause chain.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.grpcCode(), e.Error())
}

// grpcCode maps an ErrorCode to an appropriate gRPC codes.Code.
func (e *Error) grpcCode() codes.Code {
	switch e.Code {
	case CodeUnknownPipeline, CodeEmptyPipeline, CodeInvalidTimeSpec,
		CodeInvalidSpaceSpec, CodeInvalidArgument, CodeUnprovidedCheck,
		CodeInvalidPipelineDef:
		return codes.InvalidArgument

	case CodeUnknownDataSource, CodeNotFound:
		return codes.NotFound

	case CodeKernelFailure, CodeUnknownFlag, CodeUnknownCheck,
		CodeInvalidTestName:
		return codes.Aborted

	case CodeUnimplemented:
		return codes.Unimplemented

	default:
		return codes.Internal
	}
}

// New creates a new application error with the given code and message.
// The default severity is SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// Newf creates a new application error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithField creates a new application error with the given code, message, and field.
func NewWithField(code ErrorCode, message, field string) *Error {
	e := New(code, message)
	e.Field = field
	return e
}

// Wrap creates a new application error that wraps an existing error,
// providing additional context with a code and message.
func Wrap(cause error, code ErrorCode, message string) *Error {
	e := New(code, message)
	e.Cause = cause
	return e
}

// Wrapf creates a wrapping error with a formatted message.
func Wrapf(cause error, code ErrorCode, format string, args ...any) *Error {
	return Wrap(cause, code, fmt.Sprintf(format, args...))
}

// WithDetails adds a key-value pair to the error's details map and returns the modified error.
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// WithField sets the field associated with the error and returns the modified error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error and returns the modified error.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is checks if the given error is an application error with a matching ErrorCode.
// It uses errors.As to unwrap the error chain.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from an error. If the error is not an *Error,
// it returns CodeInternal.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ToGRPC converts an application error or any other error into a gRPC error status.
// If the error is an *Error, it uses its GRPCStatus method.
// If it's already a gRPC status error, it's returned as is.
// Otherwise, it's wrapped as an internal gRPC error.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GRPCStatus().Err()
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(codes.Internal, err.Error())
}

// FromGRPC converts a gRPC error into an *Error.
// If the input error is nil, it returns nil.
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return New(CodeInternal, err.Error())
	}

	var code ErrorCode
	switch st.Code() {
	case codes.InvalidArgument:
		code = CodeInvalidArgument
	case codes.NotFound:
		code = CodeNotFound
	case codes.Aborted:
		code = CodeKernelFailure
	case codes.Unimplemented:
		code = CodeUnimplemented
	default:
		code = CodeInternal
	}

	return New(code, st.Message())
}

// Predefined errors for common scenarios.
var (
	ErrUnknownPipeline = New(CodeUnknownPipeline, "pipeline not recognised")
	ErrEmptyPipeline   = New(CodeEmptyPipeline, "pipeline has no steps")
)
