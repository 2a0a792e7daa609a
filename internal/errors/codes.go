package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrRateLimited    ErrorCode = "RATE_LIMITED"
	ErrServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"

	// Operation-boundary failures. Each maps to the remote call that
	// produced it; none of them is fatal to the running service.
	ErrAuthRequestFailed      ErrorCode = "AUTH_REQUEST_FAILED"
	ErrAuthExchangeFailed     ErrorCode = "AUTH_EXCHANGE_FAILED"
	ErrListingFailed          ErrorCode = "LISTING_FAILED"
	ErrURLResolutionFailed    ErrorCode = "URL_RESOLUTION_FAILED"
	ErrUploadValidationFailed ErrorCode = "UPLOAD_VALIDATION_FAILED"
	ErrUploadWriteFailed      ErrorCode = "UPLOAD_WRITE_FAILED"
	ErrDownloadFailed         ErrorCode = "DOWNLOAD_FAILED"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrNotFound:       http.StatusNotFound,
	ErrUnauthorized:   http.StatusUnauthorized,
	ErrForbidden:      http.StatusForbidden,
	ErrValidation:     http.StatusUnprocessableEntity,
	ErrBadRequest:     http.StatusBadRequest,
	ErrInternalError:  http.StatusInternalServerError,
	ErrRateLimited:    http.StatusTooManyRequests,
	ErrServiceUnavail: http.StatusServiceUnavailable,

	ErrAuthRequestFailed:      http.StatusBadGateway,
	ErrAuthExchangeFailed:     http.StatusUnauthorized,
	ErrListingFailed:          http.StatusBadGateway,
	ErrURLResolutionFailed:    http.StatusBadGateway,
	ErrUploadValidationFailed: http.StatusUnprocessableEntity,
	ErrUploadWriteFailed:      http.StatusBadGateway,
	ErrDownloadFailed:         http.StatusBadGateway,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
