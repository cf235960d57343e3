package dag

import (
	"context"

	"github.com/vk/buldr/internal/config"
	"github.com/vk/buldr/internal/ctxlog"
)

// Build constructs a validated dependency graph from projects in
// declaration order. It fails with UnknownDependencyError for a dangling
// dependency name and CyclicDependencyError if the relation is not acyclic.
func Build(ctx context.Context, projects []*config.Project) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "project_count", len(projects))

	g := newGraph(len(projects))
	for _, p := range projects {
		if err := g.addNode(p.Name); err != nil {
			return nil, err
		}
	}

	for i, p := range projects {
		for _, dep := range p.Depends {
			j, ok := g.index[dep]
			if !ok {
				return nil, &UnknownDependencyError{Project: p.Name, Dependency: dep}
			}
			g.addEdge(i, j)
		}
	}
	logger.Debug("Build: Node linking complete.", "node_count", g.Len())

	if err := g.DetectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: Cycle detection passed.")
	return g, nil
}

func newGraph(n int) *Graph {
	return &Graph{
		names:      make([]string, 0, n),
		index:      make(map[string]int, n),
		deps:       make([][]int, 0, n),
		dependents: make([][]int, 0, n),
	}
}

func (g *Graph) addNode(name string) error {
	if _, ok := g.index[name]; ok {
		return config.Errorf(name, "duplicate project name")
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.deps = append(g.deps, nil)
	g.dependents = append(g.dependents, nil)
	return nil
}

// addEdge records that node `from` depends on node `to`. Repeated edges are
// collapsed so a dependency listed twice is counted once.
func (g *Graph) addEdge(from, to int) {
	for _, existing := range g.deps[from] {
		if existing == to {
			return
		}
	}
	g.deps[from] = append(g.deps[from], to)
	g.dependents[to] = insertSorted(g.dependents[to], from)
}

func insertSorted(s []int, v int) []int {
	i := 0
	for i < len(s) && s[i] < v {
		i++
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func (g *Graph) mustIndex(name string) (int, error) {
	i, ok := g.index[name]
	if !ok {
		return 0, &UnknownProjectError{Name: name}
	}
	return i, nil
}
