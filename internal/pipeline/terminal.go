package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const defaultErrorMessage = "an unknown error occurred during evaluation"

// ErrorTerminalNode returns the terminal node for unroutable submissions.
// It is pure: it wraps the recorded error message (or a default) in the
// user-facing diagnostic report and leaves the error message set.
func ErrorTerminalNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractEvalState(s)
		if err != nil {
			return s, err
		}

		msg := st.ErrorMessage
		if msg == "" {
			msg = defaultErrorMessage
		}

		rt.Logger.WarnContext(ctx, "error terminal reached", "error", msg)

		st.ErrorMessage = msg
		st.FinalReport = errorReport(msg)

		return s.Set(KeyEvalState, st), nil
	})
}

func errorReport(msg string) string {
	return fmt.Sprintf("**Evaluation Error**\n\n%s\n\nPlease check your inputs and try again.", msg)
}
