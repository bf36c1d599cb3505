package rubrics

import "errors"

// Registry and validation errors. Load failures are fatal at startup;
// ErrSchemaMismatch is a per-result validation error surfaced by stages.
var (
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrMissingSection   = errors.New("rubric missing required section")
	ErrMissingScore     = errors.New("rubric output_format missing score field")
	ErrSchemaMismatch   = errors.New("result does not match rubric schema")
)
