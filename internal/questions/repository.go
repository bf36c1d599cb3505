package questions

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"bandcoach/pkg/pagination"
	"bandcoach/pkg/query"
	"bandcoach/pkg/repository"
	"bandcoach/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a question repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "questions"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Question], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "PromptText", "TaskType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	qs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	result := pagination.NewPageResult(qs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Question, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	question, err := repository.QueryOne(ctx, r.db, q, args, scanQuestion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &question, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Question, error) {
	if !ValidTaskType(cmd.TaskType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTaskType, cmd.TaskType)
	}
	if strings.TrimSpace(cmd.PromptText) == "" {
		return nil, ErrEmptyPrompt
	}

	id := uuid.New()

	var imageKey *string
	if len(cmd.ImageData) > 0 {
		key := buildImageKey(id)
		if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.ImageData), "image/png"); err != nil {
			return nil, fmt.Errorf("upload question image: %w", err)
		}
		imageKey = &key
	}

	q := `
		INSERT INTO questions(id, task_type, prompt_text, image_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, task_type, prompt_text, image_key, created_at, updated_at`

	insertArgs := []any{id, cmd.TaskType, cmd.PromptText, imageKey}

	question, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Question, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanQuestion)
	})

	if err != nil {
		if imageKey != nil {
			if delErr := r.storage.Delete(ctx, *imageKey); delErr != nil {
				r.logger.Warn("compensating image delete failed", "key", *imageKey, "error", delErr)
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("question created", "id", question.ID, "task_type", question.TaskType)
	return &question, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	question, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	// Evaluation history rows cascade with the question.
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM questions WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if question.ImageKey != nil {
		if delErr := r.storage.Delete(ctx, *question.ImageKey); delErr != nil {
			r.logger.Warn(
				"image delete failed after DB delete",
				"key", *question.ImageKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("question deleted", "id", id)
	return nil
}

func (r *repo) Image(ctx context.Context, id uuid.UUID) ([]byte, error) {
	question, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if question.ImageKey == nil {
		return nil, ErrNoImage
	}

	reader, err := r.storage.Download(ctx, *question.ImageKey)
	if err != nil {
		return nil, fmt.Errorf("download question image: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read question image: %w", err)
	}
	return data, nil
}

func buildImageKey(id uuid.UUID) string {
	return fmt.Sprintf("questions/%s.png", id)
}
