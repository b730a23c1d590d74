package distance

import (
	"strings"

	"github.com/LegacyCodeHQ/proximity/dotgraph"
)

// ResolveTargets builds the call-graph target set: the union, in first-seen
// order, of the nodes every target function name resolves to.
func ResolveTargets(r Resolver, names []string) ([]dotgraph.Node, error) {
	seen := make(map[int64]bool)
	var targets []dotgraph.Node
	for _, name := range names {
		for _, n := range r.Resolve(name) {
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			targets = append(targets, n)
		}
	}

	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return targets, nil
}

// SeedTable maps basic-block keys of the current control-flow graph to a seed
// distance: 0 for target blocks, otherwise the smallest call-graph distance of
// the functions called from the block. Keys iterate in insertion order.
type SeedTable struct {
	keys      []string
	distances map[string]float64
}

// NewSeedTable returns an empty table.
func NewSeedTable() *SeedTable {
	return &SeedTable{distances: make(map[string]float64)}
}

// Set stores a distance. Overwriting keeps the key's original position.
func (s *SeedTable) Set(key string, distance float64) {
	if _, ok := s.distances[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.distances[key] = distance
}

// Lower stores distance unless the key already holds a smaller or equal one.
func (s *SeedTable) Lower(key string, distance float64) {
	if current, ok := s.distances[key]; ok && current <= distance {
		return
	}
	s.Set(key, distance)
}

// Get returns the seed distance of a key.
func (s *SeedTable) Get(key string) (float64, bool) {
	d, ok := s.distances[key]
	return d, ok
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (s *SeedTable) Keys() []string {
	return s.keys
}

// Len returns the number of keys.
func (s *SeedTable) Len() int {
	return len(s.keys)
}

// BuildSeedTable derives the seed table of a control-flow graph.
//
// Every callsite whose block resolves in the graph and whose callee has a
// call-graph distance lowers the block's seed to that distance. Target lines
// are then reduced to their last '/'-separated segment; each one that
// resolves in the graph is pinned to 0. The keys pinned by targets are
// returned alongside the table.
func BuildSeedTable(r Resolver, cg CGDistances, callsites []Callsite, targets []string) (*SeedTable, []string) {
	table := NewSeedTable()

	for _, cs := range callsites {
		if len(r.Resolve(cs.Block)) == 0 {
			continue
		}
		if d, ok := cg[cs.Callee]; ok {
			table.Lower(cs.Block, d)
		}
	}

	var pinned []string
	for _, line := range targets {
		key := line[strings.LastIndexByte(line, '/')+1:]
		if key == "" {
			continue
		}
		if len(r.Resolve(key)) > 0 {
			table.Set(key, 0)
			pinned = append(pinned, key)
		}
	}

	return table, pinned
}
