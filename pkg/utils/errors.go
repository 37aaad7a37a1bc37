package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an operational error: expected, safe to show to the client,
// and carrying the HTTP status it should be answered with.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, nil)
}

// StorageError wraps a failure of the object store.
func StorageError(err error) *AppError {
	return NewAppError(http.StatusBadGateway, "Object storage error, please try again later", err)
}

// Validation wraps the field errors produced by ValidateStruct.
func Validation(errs map[string]string) *AppError {
	return NewAppError(http.StatusBadRequest, "Validation failed: "+FormatValidationErrors(errs), nil)
}

// AsAppError extracts the operational error from err, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
