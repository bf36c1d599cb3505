package questions

import (
	"context"

	"github.com/google/uuid"

	"bandcoach/pkg/pagination"
)

// System defines the public contract for question domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Question], error)

	Find(ctx context.Context, id uuid.UUID) (*Question, error)
	Create(ctx context.Context, cmd CreateCommand) (*Question, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Image returns the stored chart image bytes for a question.
	// Returns ErrNoImage when the question has no image key.
	Image(ctx context.Context, id uuid.UUID) ([]byte, error)
}
