package distance

import (
	"testing"

	"github.com/LegacyCodeHQ/proximity/dotgraph"
	"github.com/stretchr/testify/require"
)

// newGraph builds a graph named name whose i-th node carries labels[i].
// An empty label leaves the node unlabelled.
func newGraph(t *testing.T, name string, labels []string, edges [][2]int64) *dotgraph.Graph {
	t.Helper()

	b := dotgraph.NewBuilder(name)
	for i, label := range labels {
		b.AddNode(string(rune('a'+i)), label)
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e[0], e[1]))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func nodeIDs(nodes []dotgraph.Node) []int64 {
	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
