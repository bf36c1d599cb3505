// Package rubrics implements the immutable scoring-criterion registry.
// Rubric definitions are embedded JSON documents loaded and validated once
// at startup; the registry is read-only afterward and safe for concurrent use.
package rubrics

import (
	"fmt"
	"strconv"
	"strings"
)

// ScoreKey is the output field every rubric schema must define; its value
// carries the numeric band score used for overall-band aggregation.
const ScoreKey = "score"

const wordCountPlaceholder = "{word_count}"

// Criterion is a single scoring dimension: its rubric payload, the exact
// output field set a stage result must contain, and the prompt variant rule.
type Criterion struct {
	Name          string
	Category      string
	Criteria      []string
	Schema        []string
	VisualContext bool

	payload string
}

// Payload returns the serialized rubric definition with any word-count
// placeholder substituted for the current submission's word count.
func (c *Criterion) Payload(wordCount int) string {
	if !strings.Contains(c.payload, wordCountPlaceholder) {
		return c.payload
	}
	return strings.ReplaceAll(c.payload, wordCountPlaceholder, strconv.Itoa(wordCount))
}

// ValidateResult checks that the result's key set exactly equals the rubric
// schema: every required field present and no extras.
func (c *Criterion) ValidateResult(result map[string]any) error {
	if len(result) != len(c.Schema) {
		return fmt.Errorf("%w: got %d fields, schema requires %d", ErrSchemaMismatch, len(result), len(c.Schema))
	}
	for _, key := range c.Schema {
		if _, ok := result[key]; !ok {
			return fmt.Errorf("%w: missing field %q", ErrSchemaMismatch, key)
		}
	}
	return nil
}
