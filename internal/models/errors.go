package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
)

// AppError is the error type passed between repositories, services and handlers.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     fmt.Errorf("%s with id %v not found", resource, id),
	}
}

// NewValidationError reports a malformed or rejected request.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewConflictError reports a duplicate relation or unique value.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewUnauthorizedError reports a missing or invalid credential.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewForbiddenError reports an authenticated caller acting on data they do not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewInternalError wraps an unexpected failure. The cause is never sent to clients.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// StatusFor maps an error to its HTTP status. Non-AppErrors are internal.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation, CodeConflict:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes err as a JSON error body with the given status.
// Internal failures are reduced to a generic message.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	resp := ErrorResponse{Message: "Internal server error", Code: CodeInternal}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		resp = ErrorResponse{Message: appErr.Message, Code: appErr.Code}
	}

	return c.Status(status).JSON(resp)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
