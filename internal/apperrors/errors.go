package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores centinela que devuelven los repositorios
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate entry")
)

// Error es un error clasificado con su status HTTP
type Error struct {
	Status  int
	Title   string
	Message string
	Field   string
	Details []string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation representa un parámetro inválido (400)
func Validation(field, title, message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Title:   title,
		Message: message,
		Field:   field,
	}
}

// InvalidID representa un identificador con formato inválido (400)
func InvalidID(title, message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Title:   title,
		Message: message,
	}
}

// InvalidJSON representa un cuerpo que no se pudo decodificar (400)
func InvalidJSON(cause error) *Error {
	e := &Error{
		Status:  http.StatusBadRequest,
		Title:   "Invalid JSON",
		Message: "Request body contains invalid JSON",
		Field:   "body",
		cause:   cause,
	}
	if cause != nil {
		e.Details = []string{cause.Error()}
	}
	return e
}

// NotFound representa un recurso inexistente (404)
func NotFound(title, message string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Title:   title,
		Message: message,
		cause:   ErrNotFound,
	}
}

// Duplicate representa una violación de clave única (409)
func Duplicate(message string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Title:   "Duplicate entry",
		Message: message,
		cause:   ErrDuplicate,
	}
}

// Internal envuelve un error no clasificado (500)
func Internal(message string, cause error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Title:   "Internal server error",
		Message: message,
		cause:   cause,
	}
}

// As extrae un *Error de la cadena de errores
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
