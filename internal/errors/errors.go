package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeTransfer
	ErrorTypeInterrupted
	ErrorTypeProtocol
	ErrorTypeFileSystem
	ErrorTypeConfiguration
	ErrorTypeParsing
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeTransfer:
		return "TRANSFER"
	case ErrorTypeInterrupted:
		return "INTERRUPTED"
	case ErrorTypeProtocol:
		return "PROTOCOL"
	case ErrorTypeFileSystem:
		return "FILESYSTEM"
	case ErrorTypeConfiguration:
		return "CONFIGURATION"
	case ErrorTypeParsing:
		return "PARSING"
	default:
		return "UNKNOWN"
	}
}

// Error codes shared by constructors and sentinels.
const (
	CodePackageNotFound     = "PACKAGE_NOT_FOUND"
	CodeTransferFailed      = "TRANSFER_FAILED"
	CodeDownloadInterrupted = "DOWNLOAD_INTERRUPTED"
	CodeBadResponse         = "BAD_RESPONSE"
	CodeBadConfig           = "BAD_CONFIG"
	CodeBadArchive          = "BAD_ARCHIVE"
)

// StoreError represents an error with context and suggestions
type StoreError struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	StatusCode  int               `json:"status_code,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Sentinels for errors.Is matching. Only Type and Code are compared.
var (
	ErrPackageNotFound     = &StoreError{Type: ErrorTypeNotFound, Code: CodePackageNotFound}
	ErrTransfer            = &StoreError{Type: ErrorTypeTransfer, Code: CodeTransferFailed}
	ErrDownloadInterrupted = &StoreError{Type: ErrorTypeInterrupted, Code: CodeDownloadInterrupted}
	ErrProtocol            = &StoreError{Type: ErrorTypeProtocol, Code: CodeBadResponse}
	ErrConfiguration       = &StoreError{Type: ErrorTypeConfiguration, Code: CodeBadConfig}
)

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *StoreError) Is(target error) bool {
	if t, ok := target.(*StoreError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context to the error
func (e *StoreError) WithContext(key, value string) *StoreError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error
func (e *StoreError) WithSuggestion(suggestion string) *StoreError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *StoreError) WithSuggestions(suggestions []string) *StoreError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// UserMessage returns the single-line message shown to the operator.
// The cause is left out for not-found and interrupted errors since it is
// a transport detail the operator cannot act on.
func (e *StoreError) UserMessage() string {
	switch e.Type {
	case ErrorTypeNotFound, ErrorTypeInterrupted:
		return e.Message
	}
	return e.Error()
}

// FormatDetailed returns a detailed error message with context and suggestions
func (e *StoreError) FormatDetailed() string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s error [%s]: %s\n", e.Type.String(), e.Code, e.Message))

	if len(e.Context) > 0 {
		builder.WriteString("\nContext:\n")
		for key, value := range e.Context {
			builder.WriteString(fmt.Sprintf("   %s: %s\n", key, value))
		}
	}

	if e.Cause != nil {
		builder.WriteString(fmt.Sprintf("\nUnderlying cause: %v\n", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		builder.WriteString("\nSuggestions:\n")
		for _, suggestion := range e.Suggestions {
			builder.WriteString(fmt.Sprintf("   • %s\n", suggestion))
		}
	}

	return builder.String()
}

// NewError creates a new StoreError
func NewError(errorType ErrorType, code, message string) *StoreError {
	return &StoreError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapError wraps an existing error with StoreError
func WrapError(err error, errorType ErrorType, code, message string) *StoreError {
	e := NewError(errorType, code, message)
	e.Cause = err
	return e
}

// NewPackageNotFoundError reports a lookup that produced no usable record.
func NewPackageNotFoundError(packageName string, cause error) *StoreError {
	return WrapError(cause, ErrorTypeNotFound, CodePackageNotFound,
		fmt.Sprintf("Package [%s] could not be found", packageName)).
		WithContext("package", packageName).
		WithSuggestions([]string{
			"Check the package name spelling",
			"Use 'rustoredl search' to find the exact package name",
		})
}

// NewTransferError reports a non-success HTTP status during a file transfer.
func NewTransferError(url string, statusCode int) *StoreError {
	e := NewError(ErrorTypeTransfer, CodeTransferFailed,
		fmt.Sprintf("Transfer failed with HTTP status %d", statusCode)).
		WithContext("url", url)
	e.StatusCode = statusCode
	return e
}

// NewDownloadInterruptedError reports a streaming failure after which the
// partial file was removed.
func NewDownloadInterruptedError(path string, cause error) *StoreError {
	return WrapError(cause, ErrorTypeInterrupted, CodeDownloadInterrupted, "Download interrupted.").
		WithContext("path", path).
		WithSuggestion("Run the command again to download a fresh copy")
}

// NewProtocolError reports a backend response that violates the expected shape.
func NewProtocolError(operation string, cause error) *StoreError {
	return WrapError(cause, ErrorTypeProtocol, CodeBadResponse,
		fmt.Sprintf("Unexpected response from %s", operation)).
		WithContext("operation", operation)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string, cause error) *StoreError {
	return WrapError(cause, ErrorTypeConfiguration, CodeBadConfig, message).
		WithSuggestions([]string{
			"Check the configuration file syntax",
			"Run 'rustoredl config init' to regenerate configuration",
		})
}

// NewParsingError reports a local archive that could not be read.
func NewParsingError(path string, cause error) *StoreError {
	return WrapError(cause, ErrorTypeParsing, CodeBadArchive,
		fmt.Sprintf("Failed to parse %s", path)).
		WithContext("path", path)
}

// IsCancellation reports whether err stems from operator cancellation.
func IsCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled)
}

// As is errors.As, re-exported so callers need not import both packages.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
