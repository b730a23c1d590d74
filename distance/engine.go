package distance

import "github.com/LegacyCodeHQ/proximity/dotgraph"

// seedWeight multiplies a seed's call-graph distance in control-flow terms.
const seedWeight = 10.0

// Outcome tells why a query did or did not produce a distance.
type Outcome int

const (
	// Unmatched means the identifier resolved to no node.
	Unmatched Outcome = iota
	// Unreachable means the identifier resolved but no candidate reaches a
	// target or seed callsite.
	Unreachable
	// Resolved means a distance was computed.
	Resolved
)

func (o Outcome) String() string {
	switch o {
	case Unmatched:
		return "unmatched"
	case Unreachable:
		return "unreachable"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Result is the answer to one distance query.
type Result struct {
	Identifier string
	Outcome    Outcome
	// Distance is the smallest candidate score. Only set when Outcome is
	// Resolved.
	Distance float64
	// Candidates is the number of nodes the identifier resolved to.
	Candidates int
}

// OK reports whether the result carries a distance.
func (r Result) OK() bool {
	return r.Outcome == Resolved
}

// Term is one summand of a candidate's harmonic sum.
type Term struct {
	// Key is the target's label in call-graph mode and the seed block key
	// in control-flow mode.
	Key string
	// Nearest is the closest reached node for Key and PathLength its hop
	// count from the candidate.
	Nearest    dotgraph.Node
	PathLength int
	// Seed is the seed distance of Key (control-flow mode only).
	Seed float64
	// Reached counts the nodes of Key reachable from the candidate; their
	// terms are averaged into Value.
	Reached int
	Value   float64
}

// Candidate is the evaluation of one node an identifier resolved to.
type Candidate struct {
	Node dotgraph.Node
	// Reached is i, the number of targets or seed keys reached.
	Reached int
	// Sum is d, the sum of the harmonic terms.
	Sum float64
	// Score is Reached/Sum, meaningful when Sum is not zero.
	Score float64
	Terms []Term
}

// Scored reports whether the candidate reached anything.
func (c Candidate) Scored() bool {
	return c.Sum != 0
}

type seed struct {
	key      string
	distance float64
	nodes    []dotgraph.Node
}

// Engine answers distance queries against one graph. It is immutable and safe
// for concurrent use.
type Engine struct {
	graph    *dotgraph.Graph
	resolver Resolver
	mode     Mode
	targets  []dotgraph.Node
	seeds    []seed
}

// NewCallGraphEngine returns an engine scoring functions against a target
// node set.
func NewCallGraphEngine(g *dotgraph.Graph, r Resolver, targets []dotgraph.Node) *Engine {
	return &Engine{graph: g, resolver: r, mode: ModeCG, targets: targets}
}

// NewControlFlowEngine returns an engine scoring basic blocks against seed
// callsites. Seed keys are resolved once here.
func NewControlFlowEngine(g *dotgraph.Graph, r Resolver, table *SeedTable) *Engine {
	seeds := make([]seed, 0, table.Len())
	for _, key := range table.Keys() {
		d, _ := table.Get(key)
		seeds = append(seeds, seed{key: key, distance: d, nodes: r.Resolve(key)})
	}
	return &Engine{graph: g, resolver: r, mode: ModeCFG, seeds: seeds}
}

// Mode returns the mode the engine scores in.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Distance computes the distance of an identifier: the smallest score over
// every node it resolves to.
func (e *Engine) Distance(identifier string) Result {
	result, _ := e.query(identifier, false)
	return result
}

// Explain computes the distance of an identifier and returns every candidate
// with its terms.
func (e *Engine) Explain(identifier string) (Result, []Candidate) {
	return e.query(identifier, true)
}

func (e *Engine) query(identifier string, explain bool) (Result, []Candidate) {
	nodes := e.resolver.Resolve(identifier)
	result := Result{Identifier: identifier, Candidates: len(nodes), Outcome: Unmatched}
	if len(nodes) == 0 {
		return result, nil
	}

	result.Outcome = Unreachable
	var candidates []Candidate
	for _, n := range nodes {
		c := e.evaluate(n, explain)
		if explain {
			candidates = append(candidates, c)
		}
		if !c.Scored() {
			continue
		}
		if result.Outcome != Resolved || c.Score < result.Distance {
			result.Outcome = Resolved
			result.Distance = c.Score
		}
	}
	return result, candidates
}

func (e *Engine) evaluate(n dotgraph.Node, explain bool) Candidate {
	lengths := e.graph.ShortestPathLengths(n.ID)
	c := Candidate{Node: n}

	if e.mode == ModeCG {
		for _, t := range e.targets {
			length, ok := lengths.Reaches(t.ID)
			if !ok {
				continue
			}
			value := 1.0 / (1.0 + float64(length))
			c.Sum += value
			c.Reached++
			if explain {
				c.Terms = append(c.Terms, Term{Key: t.Label, Nearest: t, PathLength: length, Reached: 1, Value: value})
			}
		}
	} else {
		for _, s := range e.seeds {
			term := Term{Key: s.key, Seed: s.distance, PathLength: -1}
			var sum float64
			for _, t := range s.nodes {
				length, ok := lengths.Reaches(t.ID)
				if !ok {
					continue
				}
				sum += 1.0 / (1.0 + float64(seedWeight*s.distance) + float64(length))
				term.Reached++
				if term.PathLength < 0 || length < term.PathLength {
					term.Nearest = t
					term.PathLength = length
				}
			}
			if term.Reached == 0 {
				continue
			}
			term.Value = sum / float64(term.Reached)
			c.Sum += term.Value
			c.Reached++
			if explain {
				c.Terms = append(c.Terms, term)
			}
		}
	}

	if c.Sum != 0 {
		c.Score = float64(c.Reached) / c.Sum
	}
	return c
}
