package dotgraph

import (
	"fmt"
	"io"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// WritePathDOT renders a path as a Graphviz digraph. Each vertex is keyed by
// its DOT name and keeps its label.
func WritePathDOT(w io.Writer, title string, path []Node) error {
	g := graphlib.New(dotName, graphlib.Directed())

	for _, n := range path {
		var opts []func(*graphlib.VertexProperties)
		if n.Label != "" {
			opts = append(opts, graphlib.VertexAttribute(labelAttribute, n.Label))
		}
		if err := g.AddVertex(n, opts...); err != nil {
			return fmt.Errorf("failed to add vertex %s: %w", dotName(n), err)
		}
	}
	for i := 1; i < len(path); i++ {
		if err := g.AddEdge(dotName(path[i-1]), dotName(path[i])); err != nil {
			return fmt.Errorf("failed to add edge %s -> %s: %w", dotName(path[i-1]), dotName(path[i]), err)
		}
	}

	return draw.DOT(g, w, draw.GraphAttribute(labelAttribute, title))
}

func dotName(n Node) string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("n%d", n.ID)
}
