package evaluations

import (
	"context"

	"github.com/google/uuid"

	"bandcoach/internal/pipeline"
)

// System defines the public contract for evaluation history operations.
type System interface {
	Handler() *Handler

	Save(ctx context.Context, cmd SaveCommand) (*Evaluation, error)
	Find(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	ForQuestion(ctx context.Context, questionID uuid.UUID) ([]Evaluation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// History returns the most recent attempts for a question, oldest first,
	// truncated for prompt injection. Limit caps the number of attempts.
	History(ctx context.Context, questionID uuid.UUID, limit int) ([]pipeline.PriorAttempt, error)
}
