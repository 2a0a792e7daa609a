package errors

import (
	"fmt"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an APIError with the status implied by its code
func New(code ErrorCode, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  code.StatusCode(),
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return New(ErrNotFound, fmt.Sprintf("%s not found", resource))
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return New(ErrUnauthorized, message)
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return New(ErrForbidden, message)
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(field, message string) *APIError {
	e := New(ErrValidation, message)
	e.Field = field
	return e
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return New(ErrBadRequest, message)
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return New(ErrInternalError, message)
}

// RateLimited creates a RATE_LIMITED error
func RateLimited(message string) *APIError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return New(ErrRateLimited, message)
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return New(ErrServiceUnavail, fmt.Sprintf("%s is temporarily unavailable", service))
}

// AuthRequestFailed wraps a failure to issue a sign-in link
func AuthRequestFailed(details string) *APIError {
	return New(ErrAuthRequestFailed, "could not send sign-in link").WithDetails(details)
}

// AuthExchangeFailed wraps a failed link exchange
func AuthExchangeFailed(message string) *APIError {
	return New(ErrAuthExchangeFailed, message)
}

// ListingFailed wraps a failed photo listing
func ListingFailed(details string) *APIError {
	return New(ErrListingFailed, "could not list photos").WithDetails(details)
}

// URLResolutionFailed wraps a failed retrieval-URL resolution
func URLResolutionFailed(details string) *APIError {
	return New(ErrURLResolutionFailed, "could not resolve photo URL").WithDetails(details)
}

// UploadValidationFailed rejects a file before any remote write
func UploadValidationFailed(message string) *APIError {
	return New(ErrUploadValidationFailed, message)
}

// UploadWriteFailed wraps a failed object write
func UploadWriteFailed(details string) *APIError {
	return New(ErrUploadWriteFailed, "could not store photo").WithDetails(details)
}

// DownloadFailed wraps a failed object read
func DownloadFailed(details string) *APIError {
	return New(ErrDownloadFailed, "could not download photo").WithDetails(details)
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}
