package distance

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/proximity/dotgraph"
)

// Resolver maps an identifier to every graph node it names. Resolution never
// fails; an identifier absent from the graph yields no nodes. Nodes come back
// in graph declaration order and the returned slice must not be modified.
type Resolver interface {
	Resolve(identifier string) []dotgraph.Node
}

// MatchStrategy names a Resolver implementation.
type MatchStrategy string

const (
	// MatchIndexed parses the key out of every label once and looks
	// identifiers up in a map.
	MatchIndexed MatchStrategy = "indexed"
	// MatchSubstring scans every label for the wrapped identifier.
	MatchSubstring MatchStrategy = "substring"
)

// MatchStrategies lists the supported strategies, default first.
var MatchStrategies = []MatchStrategy{MatchIndexed, MatchSubstring}

// ParseMatchStrategy validates a strategy name.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	for _, strategy := range MatchStrategies {
		if string(strategy) == s {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("unknown match strategy: %s (valid options: %s, %s)", s, MatchIndexed, MatchSubstring)
}

// NewResolver returns the resolver for a strategy. Unknown strategies fall
// back to MatchIndexed.
func NewResolver(g *dotgraph.Graph, mode Mode, strategy MatchStrategy) Resolver {
	if strategy == MatchSubstring {
		return NewSubstringResolver(g, mode)
	}
	return NewIndexedResolver(g, mode)
}

// wrap builds the pattern searched for in a quoted label. A function name
// fills the whole label of a call graph node, "{name}", while a basic-block
// key only opens a control-flow node's label, "{file.c:12:" followed by the
// block's instructions.
func wrap(mode Mode, identifier string) string {
	if mode == ModeCG {
		return `"{` + identifier + `}"`
	}
	return `"{` + identifier + `:`
}

// SubstringResolver matches an identifier against every label by substring
// containment of its wrapped form.
type SubstringResolver struct {
	graph *dotgraph.Graph
	mode  Mode
}

// NewSubstringResolver returns a resolver that scans all labels per lookup.
func NewSubstringResolver(g *dotgraph.Graph, mode Mode) *SubstringResolver {
	return &SubstringResolver{graph: g, mode: mode}
}

func (r *SubstringResolver) Resolve(identifier string) []dotgraph.Node {
	pattern := wrap(r.mode, identifier)

	var matches []dotgraph.Node
	for _, n := range r.graph.Nodes() {
		if n.Label == "" {
			continue
		}
		if strings.Contains(`"`+n.Label+`"`, pattern) {
			matches = append(matches, n)
		}
	}
	return matches
}

// IndexedResolver looks identifiers up in a map from label key to nodes,
// built once from the graph.
type IndexedResolver struct {
	index map[string][]dotgraph.Node
}

// NewIndexedResolver indexes every labelled node of g by the keys its label
// carries in the given mode.
func NewIndexedResolver(g *dotgraph.Graph, mode Mode) *IndexedResolver {
	index := make(map[string][]dotgraph.Node)
	for _, n := range g.Nodes() {
		for _, key := range labelKeys(mode, n.Label) {
			index[key] = append(index[key], n)
		}
	}
	return &IndexedResolver{index: index}
}

func (r *IndexedResolver) Resolve(identifier string) []dotgraph.Node {
	return r.index[identifier]
}

// labelKeys extracts the identifiers a label answers to.
//
// Call graph labels look like {name} and answer to name. Control-flow labels
// look like {file.c:12:\l  instructions...} and answer to every prefix that
// ends in :<line> and is followed by a colon, which for LLVM block names is
// exactly file.c:12.
func labelKeys(mode Mode, label string) []string {
	if len(label) < 2 || label[0] != '{' {
		return nil
	}

	if mode == ModeCG {
		if label[len(label)-1] != '}' {
			return nil
		}
		return []string{label[1 : len(label)-1]}
	}

	var keys []string
	for i := 2; i < len(label); i++ {
		if label[i] != ':' {
			continue
		}
		if prefix := label[1:i]; isBlockKey(prefix) {
			keys = append(keys, prefix)
		}
	}
	return keys
}

// isBlockKey reports whether s has the shape <file>:<line>.
func isBlockKey(s string) bool {
	sep := strings.LastIndexByte(s, ':')
	if sep <= 0 || sep == len(s)-1 {
		return false
	}
	for _, c := range s[sep+1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
