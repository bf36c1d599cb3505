// Package evaluations implements the evaluation history domain for BandCoach.
// Each row records one scored essay attempt against a question; the history
// feeds comparative feedback on subsequent attempts.
package evaluations

import (
	"time"

	"github.com/google/uuid"
)

// Evaluation represents a completed essay evaluation attempt.
type Evaluation struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	EssayText  string    `json:"essay_text"`
	Report     string    `json:"report"`
	WordCount  int       `json:"word_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveCommand carries the data needed to record a completed evaluation.
type SaveCommand struct {
	QuestionID uuid.UUID
	EssayText  string
	Report     string
	WordCount  int
}
