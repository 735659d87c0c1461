// Package errors defines the gateway's error taxonomy and its mapping onto
// HTTP statuses and response payloads.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a ServiceError.
type ErrorCode string

const (
	CodeStructural       ErrorCode = "structural"
	CodeValidation       ErrorCode = "validation"
	CodeUnknownOperation ErrorCode = "unknown_operation"
	CodeLedger           ErrorCode = "ledger"
	CodeNotification     ErrorCode = "notification"
	CodeImport           ErrorCode = "import"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeInternal         ErrorCode = "internal"
)

// Fixed client-facing messages.
const (
	MsgMethodNotAllowed   = "Korechain API method not allowed"
	MsgInvalidInput       = "Please enter valid input!"
	MsgNotificationsSent  = "Notifications sent successfully!"
	MsgUnauthorized       = "Please authorize the request. User and password are missing."
	MsgNotFound           = "Something went wrong!"
	MsgFutureVerification = "Verification date must not be a future date."
)

// ServiceError is an error carrying the HTTP status and message surfaced to callers.
type ServiceError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a detail value and returns e.
func (e *ServiceError) WithDetail(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Payload returns the response data for e: {"message": ...}.
func (e *ServiceError) Payload() map[string]interface{} {
	return map[string]interface{}{"message": e.Message}
}

// Structural reports a malformed request envelope.
func Structural(message string) *ServiceError {
	return &ServiceError{Code: CodeStructural, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Validation reports an operation payload that failed its schema. The message
// is surfaced verbatim.
func Validation(message, field string) *ServiceError {
	e := &ServiceError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// UnknownOperation reports an API key missing from the catalog.
func UnknownOperation(key string) *ServiceError {
	return (&ServiceError{
		Code:       CodeUnknownOperation,
		Message:    MsgMethodNotAllowed,
		HTTPStatus: http.StatusBadRequest,
	}).WithDetail("api", key)
}

// Ledger reports a failed ledger call. A status outside 400..599 becomes 400.
func Ledger(status int, message string, err error) *ServiceError {
	if status < 400 || status > 599 {
		status = http.StatusBadRequest
	}
	return &ServiceError{Code: CodeLedger, Message: message, HTTPStatus: status, Err: err}
}

// Notification reports a failed webhook delivery. It is only ever logged.
func Notification(recipient string, err error) *ServiceError {
	return (&ServiceError{
		Code:       CodeNotification,
		Message:    "notification delivery failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}).WithDetail("recipient", recipient)
}

// Import reports a rejected bulk import.
func Import(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeImport, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

// Unauthorized reports missing or wrong credentials.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// RateLimitExceeded reports a throttled client.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return (&ServiceError{
		Code:       CodeRateLimited,
		Message:    "rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests,
	}).WithDetail("limit", limit).WithDetail("window", window)
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// GetServiceError converts err to a ServiceError. Plain errors become a 400
// carrying err's text, matching the gateway's default failure status.
func GetServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return &ServiceError{Code: CodeInternal, Message: err.Error(), HTTPStatus: http.StatusBadRequest, Err: err}
}

// IsCode reports whether err is a ServiceError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Code == code
}
