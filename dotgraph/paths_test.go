package dotgraph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph creates a graph with nodes n0..n(count-1) labelled {n<i>}.
func buildGraph(t *testing.T, count int, edges [][2]int64) *Graph {
	t.Helper()

	b := NewBuilder("test")
	for i := 0; i < count; i++ {
		name := string(rune('a' + i))
		b.AddNode(name, "{"+name+"}")
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e[0], e[1]))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestShortestPathLengths_Linear(t *testing.T) {
	// a → b → c → d
	g := buildGraph(t, 4, [][2]int64{{0, 1}, {1, 2}, {2, 3}})

	lengths := g.ShortestPathLengths(0)

	assert.Equal(t, PathLengths{0: 0, 1: 1, 2: 2, 3: 3}, lengths)
}

func TestShortestPathLengths_PrefersShortcut(t *testing.T) {
	// a → b → c → d, a → d
	g := buildGraph(t, 4, [][2]int64{{0, 1}, {1, 2}, {2, 3}, {0, 3}})

	length, ok := g.ShortestPathLengths(0).Reaches(3)

	assert.True(t, ok)
	assert.Equal(t, 1, length)
}

func TestShortestPathLengths_DirectedOnly(t *testing.T) {
	// a → b, c → b
	g := buildGraph(t, 3, [][2]int64{{0, 1}, {2, 1}})

	_, ok := g.ShortestPathLengths(0).Reaches(2)
	assert.False(t, ok)
	assert.False(t, g.HasPath(1, 0))
	assert.True(t, g.HasPath(2, 1))
}

func TestShortestPathLengths_Cycle(t *testing.T) {
	// a → b → c → a
	g := buildGraph(t, 3, [][2]int64{{0, 1}, {1, 2}, {2, 0}})

	assert.Equal(t, PathLengths{0: 0, 1: 1, 2: 2}, g.ShortestPathLengths(0))
	assert.Equal(t, PathLengths{2: 0, 0: 1, 1: 2}, g.ShortestPathLengths(2))
}

func TestShortestPathLengths_UnknownSource(t *testing.T) {
	g := buildGraph(t, 1, nil)

	assert.Empty(t, g.ShortestPathLengths(42))
}

func TestShortestPath_AgreesWithBreadthFirstLengths(t *testing.T) {
	// a → b → d → f
	// a → c → e → f
	// c → f
	edges := [][2]int64{{0, 1}, {1, 3}, {3, 5}, {0, 2}, {2, 4}, {4, 5}, {2, 5}}
	g := buildGraph(t, 6, edges)

	lengths := g.ShortestPathLengths(0)
	for to, length := range lengths {
		path, err := g.ShortestPath(0, to)
		require.NoError(t, err)
		assert.Len(t, path, length+1, "path to %d", to)
		assert.Equal(t, int64(0), path[0].ID)
		assert.Equal(t, to, path[len(path)-1].ID)
	}
}

func TestShortestPath_SameNode(t *testing.T) {
	g := buildGraph(t, 2, [][2]int64{{0, 1}})

	path, err := g.ShortestPath(1, 1)

	require.NoError(t, err)
	assert.Equal(t, []Node{{ID: 1, Name: "b", Label: "{b}"}}, path)
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := buildGraph(t, 2, [][2]int64{{0, 1}})

	_, err := g.ShortestPath(1, 0)

	assert.ErrorIs(t, err, ErrNoPath)
}

func TestBuilder_AddEdgeUnknownNode(t *testing.T) {
	b := NewBuilder("test")
	b.AddNode("a", "{a}")

	assert.Error(t, b.AddEdge(0, 1))
}

func TestWritePathDOT(t *testing.T) {
	g := buildGraph(t, 3, [][2]int64{{0, 1}, {1, 2}})
	path, err := g.ShortestPath(0, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePathDOT(&buf, "a to c", path))

	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"a" -> "b"`)
	assert.Contains(t, out, `"b" -> "c"`)
	assert.Contains(t, out, "{c}")
	assert.Contains(t, out, "a to c")
}

func TestSummary(t *testing.T) {
	b := NewBuilder("Call graph")
	b.AddNode("a", "{main}")
	b.AddNode("b", "{target}")
	require.NoError(t, b.AddEdge(0, 1))
	g, err := b.Build()
	require.NoError(t, err)

	expected := "Name: Call graph\n" +
		"Type: DiGraph\n" +
		"Number of nodes: 2\n" +
		"Number of edges: 1\n" +
		"Average in degree:   0.5000\n" +
		"Average out degree:   0.5000"
	assert.Equal(t, expected, g.Summary())
}

func TestSummary_EmptyGraph(t *testing.T) {
	g, err := NewBuilder("").Build()
	require.NoError(t, err)

	assert.Equal(t, "Name: \nType: DiGraph\nNumber of nodes: 0\nNumber of edges: 0", g.Summary())
}
