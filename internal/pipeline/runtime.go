package pipeline

import (
	"log/slog"

	"bandcoach/internal/rubrics"
	"bandcoach/pkg/retry"
)

// Runtime bundles the dependencies that pipeline nodes require. It is
// constructed once by composition code and shared read-only across
// invocations; per-invocation state lives in EvalState.
type Runtime struct {
	Generator Generator
	Rubrics   *rubrics.Registry
	Retry     retry.Policy
	Logger    *slog.Logger
}
