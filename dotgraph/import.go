package dotgraph

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// ImportFile reads and decodes a Graphviz DOT file.
func ImportFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph %s: %w", path, err)
	}

	g, err := ImportBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph %s: %w", path, err)
	}
	return g, nil
}

// Import decodes a Graphviz DOT graph from r.
func Import(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ImportBytes(data)
}

// ImportBytes decodes a single Graphviz DOT graph. Nodes keep their DOT ID and
// label attribute; other attributes, ports and edge attributes are ignored.
func ImportBytes(data []byte) (*Graph, error) {
	dst := newDOTBuilder()
	if err := dot.Unmarshal(data, dst); err != nil {
		return nil, err
	}
	return dst.build()
}

// dotBuilder is the gonum decoding destination. It records node declaration
// order, which gonum's ID allocation does not guarantee, and swallows
// self-loops that simple.DirectedGraph rejects.
type dotBuilder struct {
	*simple.DirectedGraph

	id    string
	attrs graphAttributes
	order []*dotNode
	loops map[int64]bool
}

func newDOTBuilder() *dotBuilder {
	return &dotBuilder{
		DirectedGraph: simple.NewDirectedGraph(),
		attrs:         make(graphAttributes),
		loops:         make(map[int64]bool),
	}
}

func (b *dotBuilder) NewNode() graph.Node {
	return &dotNode{Node: b.DirectedGraph.NewNode()}
}

func (b *dotBuilder) AddNode(n graph.Node) {
	b.DirectedGraph.AddNode(n)
	if dn, ok := n.(*dotNode); ok {
		b.order = append(b.order, dn)
	}
}

func (b *dotBuilder) SetEdge(e graph.Edge) {
	if e.From().ID() == e.To().ID() {
		b.loops[e.From().ID()] = true
		return
	}
	b.DirectedGraph.SetEdge(e)
}

// SetDOTID receives the graph identifier, e.g. "Call graph".
func (b *dotBuilder) SetDOTID(id string) {
	b.id = trimQuotes(id)
}

func (b *dotBuilder) DOTAttributeSetters() (graphAttrs, nodeAttrs, edgeAttrs encoding.AttributeSetter) {
	return b.attrs, discardAttributes{}, discardAttributes{}
}

func (b *dotBuilder) build() (*Graph, error) {
	gb := NewBuilder(b.id)
	for key, value := range b.attrs {
		gb.SetAttribute(key, value)
	}

	ids := make(map[int64]int64, len(b.order))
	for _, n := range b.order {
		ids[n.ID()] = gb.AddNode(n.dotID, n.label).ID
	}

	for _, n := range b.order {
		from := ids[n.ID()]
		if b.loops[n.ID()] {
			if err := gb.AddEdge(from, from); err != nil {
				return nil, err
			}
		}
		succ := b.From(n.ID())
		for succ.Next() {
			if err := gb.AddEdge(from, ids[succ.Node().ID()]); err != nil {
				return nil, err
			}
		}
	}

	return gb.Build()
}

type dotNode struct {
	graph.Node

	dotID string
	label string
}

func (n *dotNode) SetDOTID(id string) {
	n.dotID = trimQuotes(id)
}

func (n *dotNode) SetAttribute(attr encoding.Attribute) error {
	if attr.Key == labelAttribute {
		n.label = trimQuotes(attr.Value)
	}
	return nil
}

// trimQuotes strips the surrounding quotes gonum leaves in place when a quoted
// string holds escapes Go cannot unquote, such as the \l line breaks in LLVM
// record labels.
func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

type graphAttributes map[string]string

func (a graphAttributes) SetAttribute(attr encoding.Attribute) error {
	a[attr.Key] = attr.Value
	return nil
}

type discardAttributes struct{}

func (discardAttributes) SetAttribute(encoding.Attribute) error {
	return nil
}
