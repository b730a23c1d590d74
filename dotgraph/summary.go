package dotgraph

import (
	"fmt"
	"strings"
)

// Summary describes the graph in the same shape as networkx's info block:
//
//	Name: Call graph
//	Type: DiGraph
//	Number of nodes: 2
//	Number of edges: 1
//	Average in degree:   0.5000
//	Average out degree:   0.5000
func (g *Graph) Summary() string {
	nodes := g.NodeCount()
	edges := g.EdgeCount()
	if order, err := g.store.Order(); err == nil {
		nodes = order
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", g.name)
	sb.WriteString("Type: DiGraph\n")
	fmt.Fprintf(&sb, "Number of nodes: %d\n", nodes)
	fmt.Fprintf(&sb, "Number of edges: %d\n", edges)
	if nodes > 0 {
		degree := float64(edges) / float64(nodes)
		fmt.Fprintf(&sb, "Average in degree: %8.4f\n", degree)
		fmt.Fprintf(&sb, "Average out degree: %8.4f", degree)
	}
	return strings.TrimRight(sb.String(), "\n")
}
