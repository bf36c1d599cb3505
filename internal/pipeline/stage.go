package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"bandcoach/internal/rubrics"
	"bandcoach/pkg/formatting"
	"bandcoach/pkg/retry"
)

// StageNode returns a state node that evaluates one scoring criterion.
// The rubric is resolved at construction; a missing or malformed rubric
// fails fast here, never per invocation.
//
// Per invocation the node validates input, sanitizes the document, composes
// the prompt, and calls the generator under the runtime retry policy. All
// failures are normalized into the state's error message; the node never
// returns an error past its boundary.
func StageNode(rt *Runtime, criterion string) (state.StateNode, error) {
	c, err := rt.Rubrics.Criterion(criterion)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", criterion, err)
	}

	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractEvalState(s)
		if err != nil {
			return s, fmt.Errorf("stage %s: %w", criterion, err)
		}

		// A prior failure short-circuits every remaining stage.
		if st.Failed() {
			return s, nil
		}

		return s.Set(KeyEvalState, evaluateStage(ctx, rt, c, st)), nil
	}), nil
}

func evaluateStage(ctx context.Context, rt *Runtime, c *rubrics.Criterion, st EvalState) EvalState {
	logger := rt.Logger.With("stage", c.Name)

	// Validation errors bypass the retry loop entirely.
	if st.DocumentText == "" {
		logger.Warn("no document text provided")
		return st.WithError(fmt.Sprintf("failed during %s evaluation: no document text provided", c.Name))
	}

	document := Sanitize(st.DocumentText)
	prompt := buildStagePrompt(c, c.Payload(st.WordCount), document, st)

	result, err := retry.Do(ctx, rt.Retry, func(ctx context.Context) (StageResult, error) {
		raw, err := rt.Generator.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}

		parsed, err := formatting.Parse[StageResult](raw)
		if err != nil {
			return nil, err
		}

		if err := c.ValidateResult(parsed); err != nil {
			return nil, err
		}

		return parsed, nil
	})
	if err != nil {
		logger.Error("stage evaluation failed", "error", err)
		return st.WithError(fmt.Sprintf("failed during %s evaluation: %v", c.Name, err))
	}

	logger.Info("stage evaluation complete")
	return st.WithEvaluation(c.Name, result)
}
