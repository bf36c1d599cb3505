// Package pipeline implements the multi-stage essay evaluation workflow:
// conditional entry routing by task kind, a fixed sequential chain of
// criterion stages, per-stage bounded retry, and a final synthesis stage
// that aggregates stage results into one report.
package pipeline

import (
	"fmt"
	"maps"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// KeyEvalState is the state-bag key under which the evaluation state
// travels through the graph.
const KeyEvalState = "evaluation_state"

// TaskKind is the closed task classification derived from the free-text
// category label at the pipeline boundary. Internal routing dispatches on
// this enum, never on raw strings.
type TaskKind int

// Task kinds.
const (
	TaskUnknown TaskKind = iota
	TaskOne
	TaskTwo
)

func (k TaskKind) String() string {
	switch k {
	case TaskOne:
		return "task 1"
	case TaskTwo:
		return "task 2"
	default:
		return "unknown"
	}
}

// ParseTaskKind classifies a category label by case-insensitive substring
// match. An unrecognized label is a data condition (TaskUnknown), not an error.
func ParseTaskKind(category string) TaskKind {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "task 1"):
		return TaskOne
	case strings.Contains(c, "task 2"):
		return TaskTwo
	default:
		return TaskUnknown
	}
}

// PriorAttempt is read-only, caller-supplied data from an earlier submission
// of the same question, already truncated at the boundary (200-character
// essay excerpt, 500-character evaluation summary).
type PriorAttempt struct {
	WordCount         int    `json:"word_count"`
	Timestamp         string `json:"timestamp"`
	EssayExcerpt      string `json:"essay_excerpt"`
	EvaluationSummary string `json:"evaluation_summary"`
}

// StageResult is a structured stage output whose key set exactly equals the
// criterion's rubric schema. Values are free-form (numeric score plus
// commentary fields).
type StageResult map[string]any

// EvalState is the record threaded through the pipeline. It is owned by a
// single invocation; nodes receive a value copy and return an updated copy,
// so the graph executor is the only mutator.
type EvalState struct {
	Category      string                 `json:"category"`
	Task          TaskKind               `json:"task"`
	PromptContext string                 `json:"prompt_context"`
	DocumentText  string                 `json:"document_text"`
	WordCount     int                    `json:"word_count"`
	History       []PriorAttempt         `json:"history"`
	Evaluations   map[string]StageResult `json:"evaluations"`
	FinalReport   string                 `json:"final_report"`
	ErrorMessage  string                 `json:"error_message"`
}

// Failed reports whether a prior node recorded an error. Once set, stages
// pass through untouched and the synthesizer skips generation.
func (s EvalState) Failed() bool {
	return s.ErrorMessage != ""
}

// WithError returns a copy of the state with the error message set.
func (s EvalState) WithError(msg string) EvalState {
	s.ErrorMessage = msg
	return s
}

// WithEvaluation returns a copy of the state with the criterion result merged
// into the evaluations map. The map is copied, never mutated in place.
func (s EvalState) WithEvaluation(name string, result StageResult) EvalState {
	evals := make(map[string]StageResult, len(s.Evaluations)+1)
	maps.Copy(evals, s.Evaluations)
	evals[name] = result
	s.Evaluations = evals
	return s
}

func extractEvalState(s state.State) (EvalState, error) {
	val, ok := s.Get(KeyEvalState)
	if !ok {
		return EvalState{}, fmt.Errorf("missing %s in state", KeyEvalState)
	}

	es, ok := val.(EvalState)
	if !ok {
		return EvalState{}, fmt.Errorf("%s is not EvalState", KeyEvalState)
	}

	return es, nil
}
