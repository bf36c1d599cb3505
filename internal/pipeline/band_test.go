package pipeline

import (
	"testing"

	"bandcoach/internal/rubrics"
)

func TestRoundHalfBand(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{6.0, 6.0},
		{6.1, 6.0},
		{6.24, 6.0},
		{6.25, 6.5},
		{6.5, 6.5},
		{6.74, 6.5},
		{6.75, 7.0},
		{6.8, 7.0},
		{7.0, 7.0},
		{0.0, 0.0},
		{8.875, 9.0},
	}

	for _, tt := range tests {
		if got := RoundHalfBand(tt.avg); got != tt.want {
			t.Errorf("RoundHalfBand(%v) = %v, want %v", tt.avg, got, tt.want)
		}
	}
}

func TestOverallBand(t *testing.T) {
	tests := []struct {
		name        string
		evaluations map[string]StageResult
		want        float64
		wantOK      bool
	}{
		{
			name: "float scores",
			evaluations: map[string]StageResult{
				"a": {rubrics.ScoreKey: 6.0},
				"b": {rubrics.ScoreKey: 7.0},
			},
			want:   6.5,
			wantOK: true,
		},
		{
			name: "string score tolerated",
			evaluations: map[string]StageResult{
				"a": {rubrics.ScoreKey: "7.5"},
				"b": {rubrics.ScoreKey: 6.5},
			},
			want:   7.0,
			wantOK: true,
		},
		{
			name: "unparseable scores skipped",
			evaluations: map[string]StageResult{
				"a": {rubrics.ScoreKey: "strong"},
				"b": {rubrics.ScoreKey: 8.0},
			},
			want:   8.0,
			wantOK: true,
		},
		{
			name: "no numeric scores",
			evaluations: map[string]StageResult{
				"a": {rubrics.ScoreKey: "strong"},
				"b": {"summary": "no score field"},
			},
			wantOK: false,
		},
		{
			name:        "empty",
			evaluations: map[string]StageResult{},
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := overallBand(tt.evaluations)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("band = %v, want %v", got, tt.want)
			}
		})
	}
}
