package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"bandcoach/internal/rubrics"
)

const comparisonInstruction = "IMPORTANT: Provide comparative feedback showing how this attempt compares to previous ones. Highlight improvements and persistent issues."

// buildStagePrompt composes the evaluation prompt for one criterion stage.
// The visual-aware variant embeds the prompt context verbatim as visual data;
// it is selected only when the criterion calls for visual grounding and the
// invocation actually carries context.
func buildStagePrompt(c *rubrics.Criterion, rubricPayload, document string, st EvalState) string {
	visual := c.VisualContext && st.PromptContext != ""

	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a specialist IELTS examiner for %s.\n", c.Category)
	sb.WriteString("Evaluate the following essay based only on the rubric provided.\n")
	sb.WriteString("Provide your final evaluation strictly as a JSON object whose fields exactly match the rubric's output_format.\n\n")
	sb.WriteString("Be objective, fair, and specific. Use concrete examples from the text.\n")

	if visual {
		sb.WriteString("\nVISUAL DATA / TASK DESCRIPTION:\n---\n")
		sb.WriteString(st.PromptContext)
		sb.WriteString("\n---\n")
	}

	if block := formatPriorAttempts(st.History); block != "" {
		sb.WriteString("\n")
		sb.WriteString(block)
	}

	sb.WriteString("\nCURRENT ESSAY TO EVALUATE:\n---\n")
	sb.WriteString(document)
	sb.WriteString("\n---\n")

	sb.WriteString("\nJSON RUBRIC:\n---\n")
	sb.WriteString(rubricPayload)
	sb.WriteString("\n---\n")

	if visual {
		sb.WriteString("\nIMPORTANT for Task 1:\n")
		sb.WriteString("1. Evaluate how well the essay describes the visual data provided above.\n")
		sb.WriteString("2. Check whether the essay accurately reports key features, trends, and figures from the visual data.\n")
	}

	sb.WriteString("\nRemember: your response must be valid JSON matching the output_format exactly.\n")

	return sb.String()
}

// formatPriorAttempts renders the prior-attempts comparison block, or ""
// when there is no history.
func formatPriorAttempts(history []PriorAttempt) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("--- PREVIOUS ATTEMPTS FOR COMPARISON ---\n")
	fmt.Fprintf(&sb, "This is attempt #%d for this question.\n\n", len(history)+1)

	for i, attempt := range history {
		fmt.Fprintf(&sb, "ATTEMPT #%d:\n", i+1)
		fmt.Fprintf(&sb, "Word Count: %d\n", attempt.WordCount)
		fmt.Fprintf(&sb, "Date: %s\n", attemptDate(attempt.Timestamp))
		fmt.Fprintf(&sb, "Essay Excerpt: %s\n", attempt.EssayExcerpt)
		fmt.Fprintf(&sb, "Previous Evaluation Summary: %s\n\n", attempt.EvaluationSummary)
	}

	sb.WriteString("INSTRUCTION: When evaluating, note any improvements or regressions compared to previous attempts. ")
	sb.WriteString("Provide specific feedback on how this submission compares to earlier ones.\n")
	sb.WriteString("--- END PREVIOUS ATTEMPTS ---\n")

	return sb.String()
}

// buildSynthesisPrompt composes the final-report prompt from the accumulated
// stage results. When haveBand is true the overall band was computed
// deterministically from the criterion scores and the generator is told to
// present it, not recalculate it.
func buildSynthesisPrompt(st EvalState, band float64, haveBand bool) (string, error) {
	evaluationsJSON, err := json.MarshalIndent(st.Evaluations, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize evaluations: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("ROLE: You are an expert IELTS examiner and personal writing coach providing direct, personalized feedback to a student.\n\n")
	fmt.Fprintf(&sb, "CONTEXT: You have evaluated an IELTS %s essay using structured criteria and now need to provide encouraging, direct feedback.\n", st.Category)

	if block := synthesisHistoryBlock(st.History); block != "" {
		sb.WriteString("\n")
		sb.WriteString(block)
	}

	sb.WriteString("\nINPUT DATA:\n---\n")
	sb.Write(evaluationsJSON)
	sb.WriteString("\n---\n\n")

	if haveBand {
		fmt.Fprintf(&sb, "OVERALL BAND SCORE: %.1f (arithmetic mean of the criterion scores, rounded to the nearest half band). Present exactly this score; do not recalculate it.\n\n", band)
	} else {
		sb.WriteString("OVERALL BAND SCORE: calculate the average of all individual criterion scores, rounded to the nearest half band (e.g., 6.25 -> 6.5, 6.1 -> 6.0, 6.8 -> 7.0).\n\n")
	}

	sb.WriteString(`TASK:
Create a warm, personal feedback report in Markdown format. Address the student directly using "you" and "your" throughout. Structure as follows:

1. **Your Overall Band Score:** present the overall band score encouragingly.
2. **How You Did:** a warm 2-3 sentence summary of the performance.
3. **Detailed Feedback:** for each criterion evaluated, state the criterion and its score, then a supportive paragraph on strengths and areas to improve, quoting specific examples from the essay.
4. **Your Essay Structure:** comment directly on how the essay is organized.
5. **What to Focus on Next:** 2-3 specific, actionable steps.
6. **Recommended Practice:** specific activities to try.

TONE: encouraging and supportive, like a personal tutor. Never refer to "the student" or "the writer"; speak to them directly.
`)

	if len(st.History) > 0 {
		sb.WriteString("\nInclude comparative commentary against the previous attempts in every section where it applies.\n")
	}

	return sb.String(), nil
}

// synthesisHistoryBlock renders the attempt summary context for the
// synthesizer, with evaluation summaries cut to 300 characters.
func synthesisHistoryBlock(history []PriorAttempt) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(
		&sb,
		"CONTEXT: This is attempt #%d for this question. The student has previously attempted it %d time(s).\n\nPrevious Attempts Summary:\n",
		len(history)+1, len(history),
	)

	for i, attempt := range history {
		fmt.Fprintf(&sb, "\nAttempt #%d (%s):\n", i+1, attemptDate(attempt.Timestamp))
		fmt.Fprintf(&sb, "- Word count: %d\n", attempt.WordCount)
		fmt.Fprintf(&sb, "- Previous feedback summary: %s\n", excerpt(attempt.EvaluationSummary, 300))
	}

	sb.WriteString("\n")
	sb.WriteString(comparisonInstruction)
	sb.WriteString("\n")

	return sb.String()
}

// attemptDate extracts the date portion (first 10 characters) of an
// RFC 3339-style timestamp.
func attemptDate(timestamp string) string {
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}

func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
