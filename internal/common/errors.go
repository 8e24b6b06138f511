package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound    = errors.New("requested resource not found")
	ErrValidation  = errors.New("validation failed")
	ErrExternalAPI = errors.New("external api error")
)

// FieldError identifies one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ValidationError is a 400-class error carrying per-field context.
// Details and InvalidMembers are both optional.
type ValidationError struct {
	Message        string
	Details        []FieldError
	InvalidMembers []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ExternalAPIError reports a failed outbound call: either a non-OK
// upstream response (StatusCode set, Comment from the API envelope when
// present) or a transport failure (Err set).
type ExternalAPIError struct {
	StatusCode int
	Comment    string
	Err        error
}

func (e *ExternalAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("external api request failed: %v", e.Err)
	}
	if e.Comment != "" {
		return e.Comment
	}
	return fmt.Sprintf("external api returned status %d", e.StatusCode)
}

func (e *ExternalAPIError) Unwrap() error {
	return ErrExternalAPI
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}

	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusBadRequest {
			return apiErr.StatusCode
		}
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}
