package pipeline

import (
	"context"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Node names. The topology is fixed at build time: route selects the entry
// stage by task kind (or the error terminal), the task stages converge on
// coherence, and the chain runs sequentially through synthesis. The chain is
// deliberately sequential even though the criterion evaluations are
// independent; keeping one in-flight generation call per invocation is a
// documented design choice, not a domain constraint.
const (
	nodeRoute         = "route"
	nodeSynthesize    = "synthesize"
	nodeErrorTerminal = "error_terminal"
	nodeComplete      = "complete"
)

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("bandcoach-evaluate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode(nodeRoute, RouteNode(rt)); err != nil {
		return nil, err
	}

	stages := []string{
		CriterionTaskAchievement,
		CriterionTaskResponse,
		CriterionCoherence,
		CriterionLexical,
		CriterionGrammar,
	}
	for _, criterion := range stages {
		node, err := StageNode(rt, criterion)
		if err != nil {
			return nil, err
		}
		if err := graph.AddNode(criterion, node); err != nil {
			return nil, err
		}
	}

	if err := graph.AddNode(nodeSynthesize, SynthesizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode(nodeErrorTerminal, ErrorTerminalNode(rt)); err != nil {
		return nil, err
	}

	// The graph takes a single exit point; complete is a no-op join for the
	// synthesis and error-terminal paths.
	if err := graph.AddNode(nodeComplete, completeNode()); err != nil {
		return nil, err
	}

	// route → task stage | error terminal (conditional on the parsed kind)
	if err := graph.AddEdge(nodeRoute, CriterionTaskAchievement, taskIs(TaskOne)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(nodeRoute, CriterionTaskResponse, taskIs(TaskTwo)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(nodeRoute, nodeErrorTerminal, routeFailed); err != nil {
		return nil, err
	}

	// task stages converge, then the fixed sequential chain
	chain := [][2]string{
		{CriterionTaskAchievement, CriterionCoherence},
		{CriterionTaskResponse, CriterionCoherence},
		{CriterionCoherence, CriterionLexical},
		{CriterionLexical, CriterionGrammar},
		{CriterionGrammar, nodeSynthesize},
		{nodeSynthesize, nodeComplete},
		{nodeErrorTerminal, nodeComplete},
	}
	for _, edge := range chain {
		if err := graph.AddEdge(edge[0], edge[1], nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(nodeRoute); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(nodeComplete); err != nil {
		return nil, err
	}

	return graph, nil
}

func completeNode() state.StateNode {
	return state.NewFunctionNode(func(_ context.Context, s state.State) (state.State, error) {
		return s, nil
	})
}
