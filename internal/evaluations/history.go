package evaluations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bandcoach/internal/pipeline"
	"bandcoach/pkg/repository"
)

// Prompt-injection bounds for prior attempt content. Full rows stay in the
// database; only the excerpts travel into prompts.
const (
	essayExcerptLimit = 200
	summaryLimit      = 500
)

func (r *repo) History(
	ctx context.Context,
	questionID uuid.UUID,
	limit int,
) ([]pipeline.PriorAttempt, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM evaluations
		WHERE question_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, columns)

	recent, err := repository.QueryMany(ctx, r.db, q, []any{questionID, limit}, scanEvaluation)
	if err != nil {
		return nil, fmt.Errorf("query evaluation history: %w", err)
	}

	// Oldest first so attempt numbering in prompts reads chronologically.
	attempts := make([]pipeline.PriorAttempt, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		attempts = append(attempts, toPriorAttempt(recent[i]))
	}
	return attempts, nil
}

func toPriorAttempt(e Evaluation) pipeline.PriorAttempt {
	return pipeline.PriorAttempt{
		WordCount:         e.WordCount,
		Timestamp:         e.CreatedAt.Format(time.RFC3339),
		EssayExcerpt:      truncate(e.EssayText, essayExcerptLimit),
		EvaluationSummary: truncate(e.Report, summaryLimit),
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
