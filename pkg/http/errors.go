package http

import (
	"fmt"
	"net/http"
)

// AppError carries an error code, a user-facing message, and the HTTP
// status the API layer should respond with.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
		Params:  make(map[string]interface{}),
	}
}

func (e *AppError) WithParams(params map[string]interface{}) *AppError {
	e.Params = params
	return e
}

func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError attaches the underlying cause. The cause is logged, never
// serialized to the client.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func errorCtor(code string, status int) func(string) *AppError {
	return func(message string) *AppError {
		return NewAppError(code, "", message, status)
	}
}

var (
	NotFoundError     = errorCtor("ERR_NOT_FOUND", http.StatusNotFound)
	BadRequestError   = errorCtor("ERR_BAD_REQUEST", http.StatusBadRequest)
	UnauthorizedError = errorCtor("ERR_UNAUTHORIZED", http.StatusUnauthorized)
	ForbiddenError    = errorCtor("ERR_FORBIDDEN", http.StatusForbidden)
	InternalError     = errorCtor("ERR_INTERNAL", http.StatusInternalServerError)
)

func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, a...))
}

func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return BadRequestError(fmt.Sprintf(format, a...))
}

func InternalErrorf(format string, a ...interface{}) *AppError {
	return InternalError(fmt.Sprintf(format, a...))
}
