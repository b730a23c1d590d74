package dotgraph

import (
	"errors"
	"fmt"

	graphlib "github.com/dominikbraun/graph"
)

// ErrNoPath is returned when the target is not reachable from the source.
var ErrNoPath = errors.New("no path between nodes")

// PathLengths maps every node reachable from a source to its hop count. The
// source itself is present with length 0.
type PathLengths map[int64]int

// Reaches reports whether id is reachable and returns its hop count.
func (p PathLengths) Reaches(id int64) (int, bool) {
	length, ok := p[id]
	return length, ok
}

// ShortestPathLengths runs a breadth-first search from the source and returns
// the unweighted shortest path length to every reachable node.
func (g *Graph) ShortestPathLengths(from int64) PathLengths {
	lengths := make(PathLengths)
	if _, ok := g.Node(from); !ok {
		return lengths
	}
	lengths[from] = 0

	queue := []int64{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next := lengths[current] + 1
		for _, neighbor := range g.succ[current] {
			if _, seen := lengths[neighbor]; seen {
				continue
			}
			lengths[neighbor] = next
			queue = append(queue, neighbor)
		}
	}

	return lengths
}

// HasPath reports whether to is reachable from from.
func (g *Graph) HasPath(from, to int64) bool {
	_, ok := g.ShortestPathLengths(from).Reaches(to)
	return ok
}

// ShortestPath returns the nodes on one shortest path from from to to, both
// ends included. A node's path to itself is the node alone.
func (g *Graph) ShortestPath(from, to int64) ([]Node, error) {
	src, ok := g.Node(from)
	if !ok {
		return nil, fmt.Errorf("source %d: %w", from, graphlib.ErrVertexNotFound)
	}
	if _, ok := g.Node(to); !ok {
		return nil, fmt.Errorf("target %d: %w", to, graphlib.ErrVertexNotFound)
	}
	if from == to {
		return []Node{src}, nil
	}
	if !g.HasPath(from, to) {
		return nil, fmt.Errorf("%d -> %d: %w", from, to, ErrNoPath)
	}

	hashes, err := graphlib.ShortestPath(g.store, from, to)
	if err != nil {
		return nil, fmt.Errorf("%d -> %d: %w", from, to, err)
	}

	path := make([]Node, 0, len(hashes))
	for _, id := range hashes {
		path = append(path, g.nodes[id])
	}
	return path, nil
}
