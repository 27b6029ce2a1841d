package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	g := NewDependencyGraph()
	g.AddPackage("app")
	g.AddPackage("ui")
	g.AddPackage("core")
	g.AddDependency("app", "ui")
	g.AddDependency("ui", "core")

	order := g.TopologicalSort()
	require.Equal(t, []string{"core", "ui", "app"}, order)
}

func TestTopologicalSortBreaksTiesByInsertionOrder(t *testing.T) {
	g := NewDependencyGraph()
	g.AddPackage("b")
	g.AddPackage("a")
	g.AddPackage("c")

	order := g.TopologicalSort()
	require.Equal(t, []string{"b", "a", "c"}, order)
}

func TestHasCircularDependenciesDetectsCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddPackage("a")
	g.AddPackage("b")
	g.AddDependency("a", "b")
	g.AddDependency("b", "a")

	require.True(t, g.HasCircularDependencies())
}

func TestHasCircularDependenciesFalseForAcyclicGraph(t *testing.T) {
	g := NewDependencyGraph()
	g.AddPackage("a")
	g.AddPackage("b")
	g.AddDependency("a", "b")

	require.False(t, g.HasCircularDependencies())
}

func TestEmptyGraphNeverPanics(t *testing.T) {
	g := NewDependencyGraph()
	require.False(t, g.HasCircularDependencies())
	require.Empty(t, g.TopologicalSort())
}

func TestOutOfWorkspaceDependenciesAreNotEdges(t *testing.T) {
	g := NewDependencyGraph()
	g.AddPackage("app")
	g.AddDependency("app", "left-pad") // not a registered member

	order := g.TopologicalSort()
	require.Equal(t, []string{"app"}, order)
}
