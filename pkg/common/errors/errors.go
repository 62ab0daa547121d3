package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/duynguyendang/formalmath/pkg/formal"
	"github.com/duynguyendang/formalmath/pkg/proof"
)

// Common sentinel errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// AppError represents an application-specific error with an HTTP status code.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a core error to an AppError with an appropriate HTTP
// status code. Registry misses map to 404; construction and template
// misuse map to 400; proof verification failures map to 422 since the
// request was well-formed but the proof is not.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Check for existing AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, formal.ErrNotFound) {
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	}

	if errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, formal.ErrDuplicateLabel) ||
		errors.Is(err, formal.ErrMissingBinding) ||
		errors.Is(err, formal.ErrUnknownBinding) ||
		errors.Is(err, formal.ErrKindMismatch) ||
		errors.Is(err, formal.ErrTypeConflict) ||
		errors.Is(err, proof.ErrInvalidStatement) {
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	}

	var verr *proof.VerifyError
	if errors.As(err, &verr) {
		return NewAppError(http.StatusUnprocessableEntity, "Proof verification failed", err)
	}

	// Default to internal server error
	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}
