package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
	ErrCodePartialUpdate     = "PARTIAL_UPDATE_FAILURE"
	ErrCodeCacheError        = "CACHE_ERROR"
	ErrCodeThirdPartyError   = "THIRD_PARTY_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

// UpstreamError covers failures talking to the remote commerce API:
// connectivity errors, non-2xx statuses and API-reported error payloads.
func UpstreamError(message string) *AppError {
	return NewAppError(ErrCodeUpstream, message, http.StatusBadGateway)
}

func MalformedResponseError(message string) *AppError {
	return NewAppError(ErrCodeMalformedResponse, message, http.StatusBadGateway)
}

// PartialUpdateError marks the failure mode of the remove-then-add quantity
// update: the remove succeeded but the re-add did not, so the remote cart is
// missing the item until a later add completes. Callers must surface this
// rather than retry silently.
func PartialUpdateError(message string) *AppError {
	return NewAppError(ErrCodePartialUpdate, message, http.StatusBadGateway)
}

func CacheError(message string) *AppError {
	return NewAppError(ErrCodeCacheError, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
