package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Code is a stable, machine-readable error classification.
type Code string

const (
	CodeConfiguration  Code = "CONFIGURATION_ERROR"
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeAuthentication Code = "AUTHENTICATION_ERROR"
	CodePermission     Code = "PERMISSION_ERROR"
	CodeNotFound       Code = "NOT_FOUND"
	CodeConflict       Code = "CONFLICT_ERROR"
	CodeRateLimit      Code = "RATE_LIMIT_ERROR"
	CodeServer         Code = "SERVER_ERROR"
	CodeHTTP           Code = "HTTP_ERROR"
	CodeNetwork        Code = "NETWORK_ERROR"
	CodeTimeout        Code = "TIMEOUT_ERROR"
	CodeUnknown        Code = "UNKNOWN_ERROR"
)

// Sentinel errors for use with errors.Is. They match any *Error carrying the same Code.
var (
	ErrConfiguration  = &Error{Code: CodeConfiguration}
	ErrValidation     = &Error{Code: CodeValidation}
	ErrAuthentication = &Error{Code: CodeAuthentication}
	ErrPermission     = &Error{Code: CodePermission}
	ErrNotFound       = &Error{Code: CodeNotFound}
	ErrConflict       = &Error{Code: CodeConflict}
	ErrRateLimit      = &Error{Code: CodeRateLimit}
	ErrServer         = &Error{Code: CodeServer}
	ErrHTTP           = &Error{Code: CodeHTTP}
	ErrNetwork        = &Error{Code: CodeNetwork}
	ErrTimeout        = &Error{Code: CodeTimeout}
	ErrUnknown        = &Error{Code: CodeUnknown}
)

// Error is the single error type returned by the SDK.
type Error struct {
	Message    string
	Code       Code
	Details    string
	StatusCode int // zero when no HTTP response was received
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsCode reports whether err is, or wraps, an *Error with the given code.
func IsCode(err error, code Code) bool {
	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr.Code == code
	}
	return false
}

func newError(message string, code Code, details string) *Error {
	return &Error{Message: message, Code: code, Details: details}
}

func validationError(message, details string) *Error {
	return newError(message, CodeValidation, details)
}

// errorEnvelope is the failure body the reviews service sends.
type errorEnvelope struct {
	Error *APIErrorBody `json:"error"`
}

// classifyResponse maps a non-2xx response to an *Error. Callers must return the result.
func classifyResponse(status int, body []byte) *Error {
	var serverMessage string
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		serverMessage = envelope.Error.Message
	}

	var e *Error
	switch {
	case status == http.StatusUnauthorized:
		e = newError("Invalid or missing API key", CodeAuthentication, "Check your API key configuration")
	case status == http.StatusNotFound:
		e = newError("Resource not found", CodeNotFound, "The requested resource was not found")
	case status == http.StatusBadRequest:
		e = newError("Bad request", CodeValidation, "Invalid request data")
	case status == http.StatusForbidden:
		e = newError("Forbidden", CodePermission, "Insufficient permissions for this operation")
	case status == http.StatusConflict:
		e = newError("Conflict", CodeConflict, "Resource conflict occurred")
	case status == http.StatusTooManyRequests:
		e = newError("Rate limit exceeded", CodeRateLimit, "Too many requests. Please try again later.")
	case status >= http.StatusInternalServerError:
		e = newError("Internal server error", CodeServer, "Reviews service is temporarily unavailable")
	default:
		e = newError(fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)), CodeHTTP, "Unknown API error")
	}

	if serverMessage != "" {
		e.Details = serverMessage
	}
	e.StatusCode = status
	return e
}

// classifyTransport maps a failure that happened before any HTTP status was received.
func classifyTransport(err error) *Error {
	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr
	}

	if isTimeout(err) {
		return &Error{
			Message: "Request timed out",
			Code:    CodeTimeout,
			Details: "The request took too long to complete. Please try again.",
			Err:     err,
		}
	}

	if isConnectionFailure(err) {
		return &Error{
			Message: "Failed to connect to reviews service",
			Code:    CodeNetwork,
			Details: "Check your internet connection and try again",
			Err:     err,
		}
	}

	return &Error{
		Message: "Unknown error occurred",
		Code:    CodeUnknown,
		Details: err.Error(),
		Err:     err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// validateConfig checks the construction-time configuration.
func validateConfig(cfg Config) error {
	if cfg.APIKey == "" {
		return newError("API key is required", CodeConfiguration, "Provide APIKey in the client config")
	}
	if cfg.BaseURL == "" {
		return newError("Base URL is required", CodeConfiguration, "Provide BaseURL in the client config")
	}
	if cfg.Timeout < 0 {
		return invalidTimeoutError()
	}
	return nil
}

func invalidTimeoutError() *Error {
	return newError("Invalid timeout value", CodeConfiguration, "Timeout must be a positive duration")
}
