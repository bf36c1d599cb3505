package evaluations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"bandcoach/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an evaluation repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "evaluations"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Evaluation, error) {
	q := fmt.Sprintf(`
		INSERT INTO evaluations(id, question_id, essay_text, report, word_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, columns)

	args := []any{uuid.New(), cmd.QuestionID, cmd.EssayText, cmd.Report, cmd.WordCount}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Evaluation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEvaluation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("evaluation saved", "id", e.ID, "question_id", e.QuestionID)
	return &e, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	q := fmt.Sprintf("SELECT %s FROM evaluations WHERE id = $1", columns)

	e, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanEvaluation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) ForQuestion(ctx context.Context, questionID uuid.UUID) ([]Evaluation, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM evaluations WHERE question_id = $1 ORDER BY created_at DESC",
		columns,
	)

	es, err := repository.QueryMany(ctx, r.db, q, []any{questionID}, scanEvaluation)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	return es, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM evaluations WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("evaluation deleted", "id", id)
	return nil
}
