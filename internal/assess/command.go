// Package assess implements the essay assessment flow for BandCoach.
// It validates a submission, gathers question context and attempt history,
// describes chart images, runs the evaluation pipeline, and records the
// outcome.
package assess

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"bandcoach/internal/pipeline"
)

// Minimum words for an essay to be worth evaluating. Shorter submissions are
// rejected before any generation work.
const minEssayWords = 50

// Command carries one essay submission. QuestionID links the attempt to a
// stored question for history and image context; ad-hoc submissions may
// instead supply PromptText and ImageData directly.
type Command struct {
	TaskType   string     `json:"task_type"`
	PromptText string     `json:"prompt_text"`
	EssayText  string     `json:"essay_text"`
	ImageData  string     `json:"image_data,omitempty"`
	QuestionID *uuid.UUID `json:"question_id,omitempty"`
}

// Result is the assessment outcome returned to the caller.
type Result struct {
	Report           string                          `json:"report"`
	Error            string                          `json:"error,omitempty"`
	WordCount        int                             `json:"word_count"`
	ImageDescription string                          `json:"image_description,omitempty"`
	ProcessingTime   float64                         `json:"processing_time"`
	Evaluations      map[string]pipeline.StageResult `json:"evaluations,omitempty"`
}

// Domain errors for assessment operations.
var (
	ErrInvalidTaskType = errors.New("invalid task type")
	ErrEmptyEssay      = errors.New("essay text is required")
	ErrEssayTooShort   = errors.New("essay is too short to evaluate")
)

// MapHTTPStatus maps assessment domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidTaskType) ||
		errors.Is(err, ErrEmptyEssay) ||
		errors.Is(err, ErrEssayTooShort) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
