package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"bandcoach/pkg/retry"
)

const genericErrorReport = "**Evaluation Error**\n\nAn error occurred during the evaluation process. Please try again."

const fallbackReport = `**Evaluation Report**

An error occurred while generating your detailed feedback report. However, your essay has been processed.

**What you can do:**
- Check that your essay meets the minimum word requirements
- Ensure your essay directly addresses the prompt
- Review the IELTS writing criteria: Task Achievement/Response, Coherence & Cohesion, Lexical Resource, and Grammatical Range & Accuracy

Please try submitting your essay again.`

// Criterion names expected in the evaluations map.
const (
	CriterionTaskAchievement = "task_achievement"
	CriterionTaskResponse    = "task_response"
	CriterionCoherence       = "coherence_cohesion"
	CriterionLexical         = "lexical_resource"
	CriterionGrammar         = "grammatical_range"
)

// SynthesizeNode returns the aggregation node. It computes the overall band
// deterministically from the criterion scores and asks the generator for the
// narrative report under the runtime retry policy. Every failure mode
// resolves to a well-formed state: a prior error yields the generic error
// report, empty evaluations or retry exhaustion yield the static fallback
// report with a synthesis-scoped error message.
func SynthesizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractEvalState(s)
		if err != nil {
			return s, err
		}

		return s.Set(KeyEvalState, synthesize(ctx, rt, st)), nil
	})
}

func synthesize(ctx context.Context, rt *Runtime, st EvalState) EvalState {
	logger := rt.Logger.With("stage", "synthesize")

	// A failure earlier in the chain skips all generation work.
	if st.Failed() {
		logger.Warn("skipping synthesis", "error", st.ErrorMessage)
		st.FinalReport = genericErrorReport
		return st
	}

	if len(st.Evaluations) == 0 {
		logger.Error("no evaluation results found")
		return fallback(st, "no evaluation results found")
	}

	if missing := missingCriteria(st); len(missing) > 0 {
		logger.Warn("missing expected evaluations", "criteria", strings.Join(missing, ","))
	}

	band, haveBand := overallBand(st.Evaluations)
	if !haveBand {
		logger.Warn("no numeric scores found; delegating band arithmetic to generator")
	}

	prompt, err := buildSynthesisPrompt(st, band, haveBand)
	if err != nil {
		logger.Error("synthesis prompt failed", "error", err)
		return fallback(st, err.Error())
	}

	report, err := retry.Do(ctx, rt.Retry, func(ctx context.Context) (string, error) {
		return rt.Generator.Generate(ctx, prompt)
	})
	if err != nil {
		logger.Error("report synthesis failed", "error", err)
		return fallback(st, err.Error())
	}

	logger.Info("report synthesis complete", "band", band)
	st.FinalReport = report
	return st
}

func fallback(st EvalState, reason string) EvalState {
	st.FinalReport = fallbackReport
	st.ErrorMessage = fmt.Sprintf("synthesis error: %s", reason)
	return st
}

// missingCriteria lists expected criteria absent from the evaluations map.
// Coherence, lexical, and grammar are always expected; the task-specific
// criterion depends on the task kind. Missing entries are logged, not fatal.
func missingCriteria(st EvalState) []string {
	expected := []string{CriterionCoherence, CriterionLexical, CriterionGrammar}
	switch st.Task {
	case TaskOne:
		expected = append(expected, CriterionTaskAchievement)
	case TaskTwo:
		expected = append(expected, CriterionTaskResponse)
	}

	return slices.DeleteFunc(expected, func(name string) bool {
		_, ok := st.Evaluations[name]
		return ok
	})
}
