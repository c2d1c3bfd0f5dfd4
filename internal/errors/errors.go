package errors

import "fmt"

// ErrorCode classifies a rankwatch error.
type ErrorCode string

const (
	ErrIdentityRejected   ErrorCode = "IDENTITY_REJECTED"   // 401 on verification
	ErrNetworkUnavailable ErrorCode = "NETWORK_UNAVAILABLE" // transport failure
	ErrValidationFailed   ErrorCode = "VALIDATION_FAILED"   // caught before any request
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrQuotaExceeded      ErrorCode = "QUOTA_EXCEEDED"      // guest keyword limit
	ErrRequestFailed      ErrorCode = "REQUEST_FAILED"      // other non-2xx
	ErrInternal           ErrorCode = "INTERNAL"            // unexpected local failure
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewIdentityRejected creates a 401 error for a rejected credential.
// During bootstrap this is recovered into the guest fallback, never surfaced.
func NewIdentityRejected() *Error {
	return &Error{
		Code:    ErrIdentityRejected,
		Status:  401,
		Message: "credential was rejected by the server",
	}
}

// NewNetworkUnavailable creates an error for a transport-level failure.
func NewNetworkUnavailable(err error) *Error {
	msg := "server is unreachable"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrNetworkUnavailable,
		Status:  0,
		Message: msg,
	}
}

// NewValidationFailed creates an error for input rejected before any request.
func NewValidationFailed(msg string) *Error {
	return &Error{
		Code:    ErrValidationFailed,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing resource.
func NewNotFound(resource string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", resource),
		Details: map[string]any{"resource": resource},
	}
}

// NewQuotaExceeded creates a 403 error for the guest keyword limit.
func NewQuotaExceeded(detail string) *Error {
	msg := "keyword quota exceeded"
	if detail != "" {
		msg = detail
	}
	return &Error{
		Code:    ErrQuotaExceeded,
		Status:  403,
		Message: msg,
	}
}

// NewRequestFailed creates an error for any other non-2xx response.
func NewRequestFailed(status int, detail string) *Error {
	msg := fmt.Sprintf("request failed with status %d", status)
	if detail != "" {
		msg = detail
	}
	return &Error{
		Code:    ErrRequestFailed,
		Status:  status,
		Message: msg,
		Details: map[string]any{"status": status},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a rankwatch Error with the given code.
func Is(err error, code ErrorCode) bool {
	if rwErr, ok := err.(*Error); ok {
		return rwErr.Code == code
	}
	return false
}
