package pipeline

import (
	"math"
	"strconv"

	"bandcoach/internal/rubrics"
)

// RoundHalfBand rounds a raw criterion average to the nearest half band under
// round-half-up semantics: fractional remainder < 0.25 rounds down to the
// integer, 0.25 <= r < 0.75 rounds to the half, r >= 0.75 rounds up to the
// next integer (6.1 -> 6.0, 6.25 -> 6.5, 6.8 -> 7.0).
func RoundHalfBand(avg float64) float64 {
	whole := math.Floor(avg)
	switch rem := avg - whole; {
	case rem < 0.25:
		return whole
	case rem < 0.75:
		return whole + 0.5
	default:
		return whole + 1
	}
}

// overallBand computes the rounded mean of the numeric score fields across
// stage results. ok is false when no result carries a usable score, in which
// case the arithmetic is delegated to the generator as a fallback.
func overallBand(evaluations map[string]StageResult) (band float64, ok bool) {
	var sum float64
	var n int

	for _, result := range evaluations {
		if score, found := numericScore(result[rubrics.ScoreKey]); found {
			sum += score
			n++
		}
	}

	if n == 0 {
		return 0, false
	}

	return RoundHalfBand(sum / float64(n)), true
}

// numericScore extracts a band score from a free-form result value.
// JSON numbers decode as float64; models occasionally return the score as a
// quoted string, which is tolerated.
func numericScore(v any) (float64, bool) {
	switch score := v.(type) {
	case float64:
		return score, true
	case int:
		return float64(score), true
	case string:
		if parsed, err := strconv.ParseFloat(score, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
