package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// StatusCoder is implemented by domain errors that know their HTTP status.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// FieldErrorer is implemented by domain errors carrying per-field details.
type FieldErrorer interface {
	FieldErrors() []FieldError
}

// ErrInternalServer is the answer for errors that carry no status.
var ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}

// GetAppError converts an error to AppError. Errors that carry no status
// are reported as a generic internal error so storage details never leak.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var coded StatusCoder
	if errors.As(err, &coded) {
		out := &AppError{Code: coded.HTTPStatus(), Message: coded.Error()}
		var fe FieldErrorer
		if errors.As(err, &fe) {
			out.Errors = fe.FieldErrors()
		}
		return out
	}

	return &AppError{
		Code:    ErrInternalServer.Code,
		Message: ErrInternalServer.Message,
	}
}
