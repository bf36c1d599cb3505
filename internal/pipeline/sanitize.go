package pipeline

import "strings"

const (
	// documentCharLimit caps sanitized document text sent to the generator.
	documentCharLimit = 15000
	truncationMarker  = "... [truncated]"
)

// Sanitize collapses consecutive whitespace to single spaces and truncates
// text exceeding the document limit, appending a truncation marker.
// Sanitizing already-collapsed, under-limit text returns it unchanged.
func Sanitize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > documentCharLimit {
		text = text[:documentCharLimit] + truncationMarker
	}
	return text
}
