package questions

import (
	"errors"
	"net/http"
)

// Domain errors for question operations.
var (
	ErrNotFound        = errors.New("question not found")
	ErrDuplicate       = errors.New("question already exists")
	ErrInvalidTaskType = errors.New("invalid task type")
	ErrEmptyPrompt     = errors.New("prompt text is required")
	ErrImageTooLarge   = errors.New("image exceeds maximum upload size")
	ErrNoImage         = errors.New("question has no image")
)

// MapHTTPStatus maps question domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoImage) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrImageTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidTaskType) || errors.Is(err, ErrEmptyPrompt) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
