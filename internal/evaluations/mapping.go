package evaluations

import (
	"bandcoach/pkg/repository"
)

const columns = "id, question_id, essay_text, report, word_count, created_at"

func scanEvaluation(s repository.Scanner) (Evaluation, error) {
	var e Evaluation
	err := s.Scan(
		&e.ID,
		&e.QuestionID,
		&e.EssayText,
		&e.Report,
		&e.WordCount,
		&e.CreatedAt,
	)
	return e, err
}
