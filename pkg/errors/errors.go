// Package errors defines the error kinds shared by the generator, the
// stopword loader, and the filter service, plus an AppError wrapper that
// attaches a message and an HTTP status to a sentinel.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDataSourceUnavailable = errors.New("stopword corpus unavailable")
	ErrStopwordsFileNotFound = errors.New("stopwords file not found")
	ErrIO                    = errors.New("i/o error")
	ErrInvalidInput          = errors.New("invalid input")
	ErrRateLimited           = errors.New("rate limit exceeded")
	ErrInternal              = errors.New("internal error")
	ErrTimeout               = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// IO wraps a filesystem failure as ErrIO, keeping the cause reachable
// through errors.Is / errors.As.
func IO(op, path string, cause error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, cause)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrStopwordsFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDataSourceUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
