package dag

// Graph is the dependency graph over a set of projects. It is read-only
// after construction and safe for concurrent readers.
type Graph struct {
	// names holds project names in declaration order; a node's index is
	// its position here.
	names []string
	// index maps a project name to its node index.
	index map[string]int
	// deps[i] lists the nodes i depends on, in declaration order.
	deps [][]int
	// dependents[i] lists the nodes that depend on i, ascending.
	dependents [][]int
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.names) }

// Names returns node names in declaration order.
func (g *Graph) Names() []string {
	return append([]string(nil), g.names...)
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}
