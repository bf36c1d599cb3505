package questions

import (
	"net/url"

	"bandcoach/pkg/query"
	"bandcoach/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "questions", "q").
	Project("id", "ID").
	Project("task_type", "TaskType").
	Project("prompt_text", "PromptText").
	Project("image_key", "ImageKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for question queries.
// Nil fields are ignored. TaskType uses exact matching; PromptText uses
// case-insensitive contains matching.
type Filters struct {
	TaskType   *string `json:"task_type,omitempty"`
	PromptText *string `json:"prompt_text,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("TaskType", f.TaskType).
		WhereContains("PromptText", f.PromptText)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if tt := values.Get("task_type"); tt != "" {
		f.TaskType = &tt
	}

	if pt := values.Get("prompt_text"); pt != "" {
		f.PromptText = &pt
	}

	return f
}

func scanQuestion(s repository.Scanner) (Question, error) {
	var q Question
	err := s.Scan(
		&q.ID,
		&q.TaskType,
		&q.PromptText,
		&q.ImageKey,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	return q, err
}
