// Package vision extracts textual descriptions from Task 1 chart images.
// The description becomes prompt context for the task achievement stage so
// evaluation can check whether the essay reports what the visual shows.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/format"
)

const describePrompt = `Describe this chart or graph in detail for IELTS Writing Task 1 evaluation.

Include:
1. The type of visual (bar chart, line graph, pie chart, table, diagram, map, or process)
2. The title and axis labels or category names
3. The key data points and values shown
4. The time period covered, if any
5. The units of measurement
6. The main trends, comparisons, or notable features

Be factual and complete. Do not evaluate or interpret beyond what the visual shows.`

// System describes chart images for evaluation context.
type System interface {
	// Describe returns a textual description of the image. ImageData is
	// base64-encoded PNG, with or without a data URI prefix.
	Describe(ctx context.Context, imageData string) (string, error)
}

type visionAgent struct {
	cfg    gaconfig.AgentConfig
	logger *slog.Logger
}

// New creates a vision system backed by a go-agents vision-capable agent.
func New(cfg gaconfig.AgentConfig, logger *slog.Logger) System {
	return &visionAgent{
		cfg:    cfg,
		logger: logger.With("system", "vision"),
	}
}

func (v *visionAgent) Describe(ctx context.Context, imageData string) (string, error) {
	a, err := agent.New(&v.cfg)
	if err != nil {
		return "", fmt.Errorf("create vision agent: %w", err)
	}

	resp, err := a.Vision(ctx, describePrompt, []format.Image{{URL: dataURI(imageData)}})
	if err != nil {
		return "", fmt.Errorf("vision call: %w", err)
	}

	description := strings.TrimSpace(resp.Text())
	v.logger.Info("image described", "length", len(description))
	return description, nil
}

func dataURI(imageData string) string {
	if strings.HasPrefix(imageData, "data:") {
		return imageData
	}
	return "data:image/png;base64," + imageData
}
