package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Input is the caller-supplied record for one evaluation run. History must
// already be truncated at the boundary; the pipeline treats it as read-only.
type Input struct {
	Category      string
	PromptContext string
	DocumentText  string
	WordCount     int
	History       []PriorAttempt
}

// Outcome is the final result of a run. Exactly one of FinalReport's success
// content or ErrorMessage describes what happened; FinalReport is always
// non-empty (errors render as a formatted diagnostic report).
type Outcome struct {
	FinalReport  string                 `json:"final_report"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Evaluations  map[string]StageResult `json:"evaluations,omitempty"`
}

// Run executes the evaluation pipeline for a single submission. State is
// created fresh per invocation and discarded afterward; the runtime is shared
// read-only. Cancellation is the caller's deadline on ctx, which may abort
// mid-retry.
func Run(ctx context.Context, rt *Runtime, in Input) (*Outcome, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil).Set(KeyEvalState, EvalState{
		Category:      in.Category,
		PromptContext: in.PromptContext,
		DocumentText:  in.DocumentText,
		WordCount:     in.WordCount,
		History:       in.History,
		Evaluations:   map[string]StageResult{},
	})

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	st, err := extractEvalState(final)
	if err != nil {
		return nil, fmt.Errorf("extract final state: %w", err)
	}

	if st.FinalReport == "" && st.ErrorMessage == "" {
		return nil, fmt.Errorf("pipeline completed without report or error")
	}

	return &Outcome{
		FinalReport:  st.FinalReport,
		ErrorMessage: st.ErrorMessage,
		Evaluations:  st.Evaluations,
	}, nil
}
