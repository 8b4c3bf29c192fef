package client

import (
	"net/http"

	"github.com/pkg/errors"
)

type ErrorCode string

const (
	CodeInvalidCredentials ErrorCode = "invalid_credentials"
	CodeDuplicateEmail     ErrorCode = "duplicate_email"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeForbidden          ErrorCode = "forbidden"
	CodeNotFound           ErrorCode = "not_found"
	CodeValidationError    ErrorCode = "validation_error"
	CodeNetworkUnavailable ErrorCode = "network_unavailable"
	CodeServerError        ErrorCode = "server_error"
	CodeUnknown            ErrorCode = "unknown"
)

// APIError is the single error type surfaced by the SDK; Message is always
// safe to display to an end user.
type APIError struct {
	Code       ErrorCode
	StatusCode int
	Message    string
	Fields     map[string]string // per-field validation messages, if any
}

func (e *APIError) Error() string {
	return e.Message
}

// AsAPIError unwraps err into an *APIError when it is one.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}

const (
	networkMessage  = "Unable to connect to server. Please check your internet connection."
	fallbackMessage = "An unexpected error occurred."
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Please log in to continue.",
	http.StatusForbidden:           "You don't have permission to do that.",
	http.StatusNotFound:            "Resource not found.",
	http.StatusUnprocessableEntity: "Validation error. Please check your input.",
	http.StatusInternalServerError: "Server error. Please try again later.",
	http.StatusServiceUnavailable:  "Service temporarily unavailable. Please try again later.",
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidationError
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	}
	if status >= http.StatusInternalServerError {
		return CodeServerError
	}
	return CodeUnknown
}

// newAPIError builds an APIError for an HTTP status; a server-provided
// message wins over the per-status fallback.
func newAPIError(status int, serverMsg string, fields map[string]string) *APIError {
	msg := serverMsg
	if msg == "" {
		msg = statusMessages[status]
	}
	if msg == "" {
		msg = fallbackMessage
	}
	return &APIError{
		Code:       codeForStatus(status),
		StatusCode: status,
		Message:    msg,
		Fields:     fields,
	}
}

func newNetworkError(err error) *APIError {
	return &APIError{Code: CodeNetworkUnavailable, Message: networkMessage}
}
