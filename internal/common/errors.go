package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a user-facing Dutch message plus the HTTP status it maps
// to. Cause holds internal detail for the logs and is never sent to the
// client.
type AppError struct {
	Status  int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError.
func NewAppError(status int, message string, cause error) *AppError {
	return &AppError{Status: status, Message: message, Cause: cause}
}

// UserMessage returns the message that may be shown to the client: the Dutch
// message of an AppError, otherwise the error's own text, and a generic
// fallback when there is none.
func UserMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Er ging iets mis"
}

// HTTPStatus maps err onto a response status, defaulting to 500.
func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
