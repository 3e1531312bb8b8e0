package resource

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when an item id is absent from a collection.
type NotFoundError struct {
	Collection string
	ID         int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %d not found in collection %q", e.ID, e.Collection)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// ValidationError is returned when input validation fails.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// StatusCodeError is an interface for errors that carry an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}
