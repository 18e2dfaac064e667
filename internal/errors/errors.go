// Package errors provides standardized error handling for the scribe client.
// It defines common error kinds, constants, and helper functions for
// consistent error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Request error kinds
	Transport
	HTTPStatus
	NotFound
	BadResponse
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Local file error kinds
	FileNotFound
	NotAudioFile
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// RequestError represents a failed call against the transcription API.
// StatusCode is zero for transport-level failures. Detail carries the
// server's {"detail": ...} body when one was decodable.
type RequestError struct {
	ApplicationError
	endpoint   string
	statusCode int
	detail     string
}

// NewRequestError creates a new request error
func NewRequestError(msg, endpoint string, kind ErrorKind, err error) *RequestError {
	return &RequestError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		endpoint: endpoint,
	}
}

// NewStatusError creates a request error for a non-2xx response
func NewStatusError(endpoint string, statusCode int, detail string) *RequestError {
	kind := HTTPStatus
	if statusCode == 404 {
		kind = NotFound
	}
	return &RequestError{
		ApplicationError: ApplicationError{
			msg:  fmt.Sprintf("request failed with status %d", statusCode),
			kind: kind,
		},
		endpoint:   endpoint,
		statusCode: statusCode,
		detail:     detail,
	}
}

// Error returns the request error message
func (e *RequestError) Error() string {
	msg := e.msg
	if e.endpoint != "" {
		msg = fmt.Sprintf("%s: %s", e.endpoint, msg)
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Endpoint returns the API endpoint associated with the error
func (e *RequestError) Endpoint() string {
	return e.endpoint
}

// StatusCode returns the HTTP status code, or zero for transport failures
func (e *RequestError) StatusCode() int {
	return e.statusCode
}

// Detail returns the server-provided failure detail, when available
func (e *RequestError) Detail() string {
	return e.detail
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// FileError represents errors for local files before upload
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf extracts the kind from the error chain. The first classified
// kind wins; plain Wrap context carries Unknown and must not mask the
// underlying cause, so Unknown-kinded wrappers are skipped.
func KindOf(err error) ErrorKind {
	type kinder interface {
		Kind() ErrorKind
	}
	for e := err; e != nil; e = Unwrap(e) {
		if k, ok := e.(kinder); ok {
			if kind := k.Kind(); kind != Unknown {
				return kind
			}
		}
	}
	return Unknown
}

// IsNotFound reports whether the error chain contains an HTTP 404 outcome.
func IsNotFound(err error) bool {
	return KindOf(err) == NotFound
}
