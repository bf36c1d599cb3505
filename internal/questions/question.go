// Package questions implements the question bank domain for BandCoach.
// It provides types, data access, and business logic for practice question
// registration, task-type filtering, and chart image storage.
package questions

import (
	"time"

	"github.com/google/uuid"
)

// Task type identifiers for the four IELTS writing task variants.
const (
	AcademicTask1 = "academic_task1"
	GeneralTask1  = "general_task1"
	AcademicTask2 = "academic_task2"
	GeneralTask2  = "general_task2"
)

var taskTypeLabels = map[string]string{
	AcademicTask1: "Academic Task 1",
	GeneralTask1:  "General Training Task 1",
	AcademicTask2: "Academic Task 2",
	GeneralTask2:  "General Training Task 2",
}

// ValidTaskType reports whether s is one of the four task type identifiers.
func ValidTaskType(s string) bool {
	_, ok := taskTypeLabels[s]
	return ok
}

// TaskTypeLabel returns the human-readable category label for a task type
// identifier, or the identifier itself when unrecognized.
func TaskTypeLabel(s string) string {
	if label, ok := taskTypeLabels[s]; ok {
		return label
	}
	return s
}

// Question represents a registered practice question. ImageKey references the
// chart image blob for Task 1 questions; nil for questions without visuals.
type Question struct {
	ID         uuid.UUID `json:"id"`
	TaskType   string    `json:"task_type"`
	PromptText string    `json:"prompt_text"`
	ImageKey   *string   `json:"image_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to register a new question.
// ImageData holds raw PNG bytes when the question includes a chart; empty
// slices are stored as NULL image keys.
type CreateCommand struct {
	TaskType   string
	PromptText string
	ImageData  []byte
}
