package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dominikbraun/graph"
)

// DependencyGraph links each stage to the stages that consume what it
// produces. Vertices are stage names.
func DependencyGraph(stages []Stage) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	producer := make(map[string]string)
	for _, s := range stages {
		if err := g.AddVertex(s.Name); err != nil {
			if errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("duplicate stage %q", s.Name)
			}
			return nil, err
		}
		for _, a := range s.Produces {
			if other, ok := producer[a]; ok {
				return nil, fmt.Errorf("artifact %q is produced by both %q and %q", a, other, s.Name)
			}
			producer[a] = s.Name
		}
	}

	for _, s := range stages {
		for _, a := range s.Requires {
			from, ok := producer[a]
			if !ok {
				return nil, fmt.Errorf("stage %q requires %q, which no stage produces", s.Name, a)
			}
			if from == s.Name {
				return nil, fmt.Errorf("stage %q requires its own artifact %q", s.Name, a)
			}
			err := g.AddEdge(from, s.Name)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("linking %q to %q: %w", from, s.Name, err)
			}
		}
	}
	return g, nil
}

// CheckOrder verifies that every stage runs after the stages producing the
// artifacts it requires.
func CheckOrder(stages []Stage) error {
	g, err := DependencyGraph(stages)
	if err != nil {
		return err
	}

	position := make(map[string]int, len(stages))
	for i, s := range stages {
		position[s.Name] = i
	}

	edges, err := g.Edges()
	if err != nil {
		return err
	}
	for _, e := range edges {
		if position[e.Source] > position[e.Target] {
			return fmt.Errorf("stage %q runs before %q, which it depends on", e.Target, e.Source)
		}
	}
	return nil
}

// Dependencies returns the sorted names of the stages name directly depends
// on.
func Dependencies(g graph.Graph[string, string], name string) ([]string, error) {
	preds, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	var deps []string
	for from := range preds[name] {
		deps = append(deps, from)
	}
	slices.Sort(deps)
	return deps, nil
}
