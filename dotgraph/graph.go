// Package dotgraph holds the immutable, labelled directed graph that distance
// queries run against.
//
// Graphs are produced by Import (from Graphviz DOT) or by a Builder, and are
// read-only afterwards: every method on Graph is safe for concurrent use.
package dotgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

const labelAttribute = "label"

// Node is a vertex of an imported graph.
type Node struct {
	// ID is the position of the node in declaration order, starting at 0.
	ID int64
	// Name is the DOT node identifier, e.g. Node0x55d0c8a1b2c0.
	Name string
	// Label is the node's label attribute, empty when the node has none.
	Label string
}

// Graph is a directed graph whose nodes optionally carry a label. Labels are not
// unique. Edges are unweighted.
type Graph struct {
	name  string
	attrs map[string]string
	store graphlib.Graph[int64, Node]
	nodes []Node
	succ  map[int64][]int64
	loops int
}

// Builder assembles a Graph. A Builder must not be used after Build.
type Builder struct {
	name  string
	attrs map[string]string
	store graphlib.Graph[int64, Node]
	nodes []Node
	loops map[int64]bool
}

// NewBuilder returns a Builder for a graph with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		attrs: make(map[string]string),
		store: graphlib.New(nodeHash, graphlib.Directed()),
		loops: make(map[int64]bool),
	}
}

func nodeHash(n Node) int64 {
	return n.ID
}

// SetAttribute records a graph-level attribute such as label.
func (b *Builder) SetAttribute(key, value string) {
	b.attrs[key] = value
}

// AddNode appends a node and returns it with its assigned ID.
func (b *Builder) AddNode(name, label string) Node {
	n := Node{ID: int64(len(b.nodes)), Name: name, Label: label}
	var opts []func(*graphlib.VertexProperties)
	if label != "" {
		opts = append(opts, graphlib.VertexAttribute(labelAttribute, label))
	}
	// IDs are fresh, so the vertex cannot already exist.
	_ = b.store.AddVertex(n, opts...)
	b.nodes = append(b.nodes, n)
	return n
}

// AddEdge adds a directed edge between two existing nodes. Repeated edges are
// collapsed. Self-loops are counted but not stored since they never shorten a
// path.
func (b *Builder) AddEdge(from, to int64) error {
	if !b.hasNode(from) || !b.hasNode(to) {
		return fmt.Errorf("edge %d -> %d: %w", from, to, graphlib.ErrVertexNotFound)
	}
	if from == to {
		b.loops[from] = true
		return nil
	}
	err := b.store.AddEdge(from, to)
	if err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return fmt.Errorf("edge %d -> %d: %w", from, to, err)
	}
	return nil
}

func (b *Builder) hasNode(id int64) bool {
	return id >= 0 && id < int64(len(b.nodes))
}

// Build freezes the builder into a Graph.
func (b *Builder) Build() (*Graph, error) {
	adjacency, err := b.store.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read adjacency: %w", err)
	}

	succ := make(map[int64][]int64, len(adjacency))
	for from, edges := range adjacency {
		if len(edges) == 0 {
			continue
		}
		targets := make([]int64, 0, len(edges))
		for to := range edges {
			targets = append(targets, to)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		succ[from] = targets
	}

	return &Graph{
		name:  b.name,
		attrs: b.attrs,
		store: b.store,
		nodes: b.nodes,
		succ:  succ,
		loops: len(b.loops),
	}, nil
}

// Name returns the graph's DOT identifier, e.g. "Call graph".
func (g *Graph) Name() string {
	return g.name
}

// Attribute returns a graph-level attribute.
func (g *Graph) Attribute(key string) (string, bool) {
	v, ok := g.attrs[key]
	return v, ok
}

// Nodes returns all nodes in declaration order. The slice must not be modified.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int64) (Node, bool) {
	if id < 0 || id >= int64(len(g.nodes)) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Label returns the label stored on the vertex with the given ID.
func (g *Graph) Label(id int64) (string, error) {
	_, props, err := g.store.VertexWithProperties(id)
	if err != nil {
		return "", err
	}
	return props.Attributes[labelAttribute], nil
}

// Successors returns the direct successors of a node in ascending ID order.
func (g *Graph) Successors(id int64) []int64 {
	return g.succ[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges, self-loops included.
func (g *Graph) EdgeCount() int {
	size, err := g.store.Size()
	if err != nil {
		return g.loops
	}
	return size + g.loops
}
