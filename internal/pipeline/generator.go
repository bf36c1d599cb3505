package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Generator is the text-generation collaborator consumed by stage and
// synthesis nodes. Implementations must be safe for concurrent use; failures
// are returned as errors and folded into the caller's retry policy, never
// propagated past a node boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type agentGenerator struct {
	cfg gaconfig.AgentConfig
}

// NewAgentGenerator returns a Generator backed by a go-agents chat agent.
// An agent is constructed per call from the shared config, so the handle
// itself carries no mutable state.
func NewAgentGenerator(cfg gaconfig.AgentConfig) Generator {
	return &agentGenerator{cfg: cfg}
}

func (g *agentGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&g.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Text(), nil
}
