package dag

import (
	"container/heap"
	"strings"
)

// node colours for depth-first cycle detection.
const (
	unvisited = iota
	inProgress
	done
)

// DetectCycles runs a three-colour depth-first search over the dependency
// edges. Roots and edges are visited in declaration order, so the reported
// cycle is deterministic. The returned CyclicDependencyError lists the cycle
// from the re-encountered node back to itself.
func (g *Graph) DetectCycles() error {
	color := make([]int, g.Len())
	// stack mirrors the recursion so the cycle can be reconstructed.
	stack := make([]int, 0, g.Len())

	var visit func(n int) error
	visit = func(n int) error {
		color[n] = inProgress
		stack = append(stack, n)
		for _, d := range g.deps[n] {
			switch color[d] {
			case inProgress:
				return &CyclicDependencyError{Cycle: g.cycleFrom(stack, d)}
			case unvisited:
				if err := visit(d); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = done
		return nil
	}

	for n := range g.names {
		if color[n] == unvisited {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleFrom slices the DFS stack from the first occurrence of start and
// closes the loop by repeating start.
func (g *Graph) cycleFrom(stack []int, start int) []string {
	i := len(stack) - 1
	for i > 0 && stack[i] != start {
		i--
	}
	cycle := make([]string, 0, len(stack)-i+1)
	for _, n := range stack[i:] {
		cycle = append(cycle, g.names[n])
	}
	return append(cycle, g.names[start])
}

// Order returns the build order: every project appears after all of its
// dependencies. Among projects that are ready at the same time, the one
// declared first in the manifest is emitted first.
func (g *Graph) Order() []string {
	remaining := make([]int, g.Len())
	ready := &indexHeap{}
	for n := range g.names {
		remaining[n] = len(g.deps[n])
		if remaining[n] == 0 {
			heap.Push(ready, n)
		}
	}

	order := make([]string, 0, g.Len())
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, g.names[n])
		for _, dependent := range g.dependents[n] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				heap.Push(ready, dependent)
			}
		}
	}
	// Build rejects cyclic graphs, so every node has been emitted here.
	return order
}

// Closure returns the induced subgraph containing the named roots and their
// full transitive dependency closure. Node declaration order is preserved,
// so Order on the result follows the same tie-break rule as the full graph.
func (g *Graph) Closure(roots ...string) (*Graph, error) {
	keep := make([]bool, g.Len())
	var mark func(n int)
	mark = func(n int) {
		if keep[n] {
			return
		}
		keep[n] = true
		for _, d := range g.deps[n] {
			mark(d)
		}
	}
	for _, name := range roots {
		n, err := g.mustIndex(name)
		if err != nil {
			return nil, err
		}
		mark(n)
	}

	sub := newGraph(len(roots))
	for n, name := range g.names {
		if keep[n] {
			// Names are unique in g, so addNode cannot fail here.
			_ = sub.addNode(name)
		}
	}
	for n, name := range g.names {
		if !keep[n] {
			continue
		}
		from := sub.index[name]
		for _, d := range g.deps[n] {
			sub.addEdge(from, sub.index[g.names[d]])
		}
	}
	return sub, nil
}

// Dependencies returns the direct dependencies of name in declaration order.
func (g *Graph) Dependencies(name string) ([]string, error) {
	n, err := g.mustIndex(name)
	if err != nil {
		return nil, err
	}
	return g.namesOf(g.deps[n]), nil
}

// Dependents returns the projects that directly depend on name.
func (g *Graph) Dependents(name string) ([]string, error) {
	n, err := g.mustIndex(name)
	if err != nil {
		return nil, err
	}
	return g.namesOf(g.dependents[n]), nil
}

func (g *Graph) namesOf(idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = g.names[n]
	}
	return out
}

// String renders one "name -> dep, dep" line per node; used in debug logs.
func (g *Graph) String() string {
	var sb strings.Builder
	for n, name := range g.names {
		sb.WriteString(name)
		sb.WriteString(" ->")
		for k, d := range g.deps[n] {
			if k > 0 {
				sb.WriteRune(',')
			}
			sb.WriteRune(' ')
			sb.WriteString(g.names[d])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// indexHeap is a min-heap of node indices.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}
