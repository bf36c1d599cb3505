package pipeline

import (
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const invalidCategoryMessage = `invalid task category: the category label must contain "Task 1" or "Task 2"`

// RouteNode returns the entry node. It translates the free-text category into
// the closed TaskKind enum once; the graph's conditional edges dispatch on the
// enum. An unroutable category is a data condition routed to the error
// terminal, never a fault.
func RouteNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := extractEvalState(s)
		if err != nil {
			return s, err
		}

		st.Task = ParseTaskKind(st.Category)
		if st.Task == TaskUnknown {
			rt.Logger.WarnContext(ctx, "unroutable category", "category", st.Category)
			st = st.WithError(invalidCategoryMessage)
		} else {
			rt.Logger.InfoContext(ctx, "routed submission", "category", st.Category, "task", st.Task.String())
		}

		return s.Set(KeyEvalState, st), nil
	})
}

func taskIs(kind TaskKind) func(state.State) bool {
	return func(s state.State) bool {
		st, err := extractEvalState(s)
		return err == nil && !st.Failed() && st.Task == kind
	}
}

func routeFailed(s state.State) bool {
	st, err := extractEvalState(s)
	return err != nil || st.Failed()
}
