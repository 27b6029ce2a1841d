package workspace

import "github.com/pyr-sh/dag"

// DependencyGraph tracks in-workspace package dependency edges and
// derives a topological order over them.
type DependencyGraph struct {
	graph   dag.AcyclicGraph
	order   []string // insertion order, for stable tie-breaking
	members map[string]bool
	edges   map[string][]string // pkg -> its in-workspace dependencies
}

// NewDependencyGraph constructs an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{members: make(map[string]bool), edges: make(map[string][]string)}
}

// AddPackage registers a member node. Edges are derived separately via
// AddDependency once all members are known.
func (g *DependencyGraph) AddPackage(name string) {
	if g.members[name] {
		return
	}
	g.members[name] = true
	g.order = append(g.order, name)
	g.graph.Add(name)
}

// AddDependency records that pkg depends on dep, provided dep is itself
// a registered in-workspace member; out-of-workspace dependencies are
// not edges in this graph.
func (g *DependencyGraph) AddDependency(pkg, dep string) {
	if !g.members[pkg] || !g.members[dep] {
		return
	}
	g.graph.Connect(dag.BasicEdge(pkg, dep))
	g.edges[pkg] = append(g.edges[pkg], dep)
}

// HasCircularDependencies reports whether the graph contains a cycle.
// It never panics, even on an empty graph.
func (g *DependencyGraph) HasCircularDependencies() bool {
	for pkg, deps := range g.edges {
		for _, dep := range deps {
			if dep == pkg {
				return true
			}
		}
	}
	for _, scc := range dag.StronglyConnected(&g.graph.Graph) {
		if len(scc) > 1 {
			return true
		}
	}
	return false
}

// TopologicalSort returns a stable order where every package appears
// after all of its in-workspace dependencies. Ties are broken by
// insertion order. If the graph has a cycle, the returned order is a
// best-effort ordering (callers should check HasCircularDependencies
// first) and never panics.
func (g *DependencyGraph) TopologicalSort() []string {
	depth := make(map[string]int, len(g.order))
	var visit func(name string, visiting map[string]bool) int
	visit = func(name string, visiting map[string]bool) int {
		if d, ok := depth[name]; ok {
			return d
		}
		if visiting[name] {
			return 0 // cycle guard: stop recursing, treat as depth 0
		}
		visiting[name] = true
		max := 0
		for _, dep := range g.dependenciesOf(name) {
			d := visit(dep, visiting) + 1
			if d > max {
				max = d
			}
		}
		visiting[name] = false
		depth[name] = max
		return max
	}

	for _, name := range g.order {
		visit(name, map[string]bool{})
	}

	result := make([]string, len(g.order))
	copy(result, g.order)
	stableSortByDepthThenInsertion(result, depth)
	return result
}

func (g *DependencyGraph) dependenciesOf(name string) []string {
	return g.edges[name]
}

// stableSortByDepthThenInsertion sorts names by ascending depth (shortest
// chain of in-workspace dependencies first), preserving original insertion order
// among names at equal depth.
func stableSortByDepthThenInsertion(names []string, depth map[string]int) {
	// Plain stable insertion sort, swapping only on strict out-of-order
	// depth; equal-depth pairs are left untouched, which keeps relative
	// insertion order for ties.
	for i := 1; i < len(names); i++ {
		j := i
		for j > 0 && depth[names[j-1]] > depth[names[j]] {
			names[j-1], names[j] = names[j], names[j-1]
			j--
		}
	}
}
