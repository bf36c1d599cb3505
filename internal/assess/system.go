package assess

import "context"

// System defines the public contract for assessment operations.
type System interface {
	Handler() *Handler

	Assess(ctx context.Context, cmd Command) (*Result, error)
}
