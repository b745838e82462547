// Package apperr defines the error taxonomy shared by the transport, the
// converters and the service facade.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the requested record does not exist (or was already deleted)
var ErrNotFound = errors.New("record not found")

// ErrInvalidInput indicates the caller passed an unknown field, column or id
var ErrInvalidInput = errors.New("invalid input")

// ErrConflict indicates the record or object already exists
var ErrConflict = errors.New("already exists")

// ErrUnsupported indicates the operation is not defined for the entity
var ErrUnsupported = errors.New("operation not supported")

// TransportError represents a non-2xx response or a network failure talking
// to the REST backend.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: HTTP error! status: %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: HTTP error! status: %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EnvelopeError represents a backend-native failure reported as success=false.
type EnvelopeError struct {
	Code    int
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend reported failure (code %d)", e.Code)
	}
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match a 404 envelope.
func (e *EnvelopeError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// DataError represents malformed JSON or list data met during conversion or decoding.
type DataError struct {
	Field string
	Value string
	Err   error
}

func (e *DataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed data: %v", e.Err)
	}
	return fmt.Sprintf("malformed data in field %q: %v", e.Field, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// ConfigError reports missing or placeholder credentials. It is diagnostic only.
type ConfigError struct {
	Backend string
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Backend, e.Setting, e.Reason)
}

// Code maps an error to the envelope code reported to callers.
func Code(err error) int {
	var (
		envErr       *EnvelopeError
		transportErr *TransportError
		dataErr      *DataError
		configErr    *ConfigError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &envErr):
		if envErr.Code != 0 {
			return envErr.Code
		}
		return http.StatusInternalServerError
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &dataErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transportErr):
		if transportErr.StatusCode != 0 {
			return transportErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
