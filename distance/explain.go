package distance

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/proximity/dotgraph"
)

// Explanation is the breakdown of one identifier's distance.
type Explanation struct {
	Mode       Mode
	Result     Result
	Candidates []Candidate
}

// Explain breaks the distance of an identifier down per candidate.
func (a *Analysis) Explain(identifier string) Explanation {
	result, candidates := a.Engine.Explain(identifier)
	return Explanation{Mode: a.Mode, Result: result, Candidates: candidates}
}

// Best returns the candidate whose score is the reported distance.
func (e Explanation) Best() (Candidate, bool) {
	if !e.Result.OK() {
		return Candidate{}, false
	}
	for _, c := range e.Candidates {
		if c.Scored() && c.Score == e.Result.Distance {
			return c, true
		}
	}
	return Candidate{}, false
}

// Nearest returns the term of c with the shortest path. Ties go to the
// earlier term.
func (c Candidate) Nearest() (Term, bool) {
	var nearest Term
	found := false
	for _, t := range c.Terms {
		if !found || t.PathLength < nearest.PathLength {
			nearest = t
			found = true
		}
	}
	return nearest, found
}

// NearestPath returns a shortest path from the best candidate to the closest
// target or seed node it reaches.
func (a *Analysis) NearestPath(e Explanation) ([]dotgraph.Node, error) {
	best, ok := e.Best()
	if !ok {
		return nil, fmt.Errorf("%s: %w", e.Result.Identifier, dotgraph.ErrNoPath)
	}
	term, _ := best.Nearest()
	return a.Graph.ShortestPath(best.Node.ID, term.Nearest.ID)
}

// WriteExplanation writes a human readable breakdown of e.
func WriteExplanation(w io.Writer, e Explanation) error {
	ew := &errWriter{w: w}

	ew.printf("identifier: %s\n", e.Result.Identifier)
	ew.printf("mode: %s\n", e.Mode)
	ew.printf("outcome: %s\n", e.Result.Outcome)
	if e.Result.OK() {
		ew.printf("distance: %s\n", FormatDistance(e.Result.Distance))
	}

	for _, c := range e.Candidates {
		ew.printf("\ncandidate %s %s\n", c.Node.Name, c.Node.Label)
		if !c.Scored() {
			ew.printf("  reaches nothing\n")
			continue
		}
		ew.printf("  reached=%d sum=%s score=%s\n", c.Reached, FormatDistance(c.Sum), FormatDistance(c.Score))
		for _, t := range c.Terms {
			if e.Mode == ModeCG {
				ew.printf("  target %s via %s: length=%d value=%s\n",
					t.Key, t.Nearest.Name, t.PathLength, FormatDistance(t.Value))
				continue
			}
			ew.printf("  seed %s (%s) via %s: length=%d reached=%d value=%s\n",
				t.Key, FormatDistance(t.Seed), t.Nearest.Name, t.PathLength, t.Reached, FormatDistance(t.Value))
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
