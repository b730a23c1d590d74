package distance

import (
	"bytes"
	"testing"

	"github.com/LegacyCodeHQ/proximity/dotgraph"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callGraphAnalysis(t *testing.T) *Analysis {
	t.Helper()

	g, err := dotgraph.ImportFile(fixture("cg.dot"))
	require.NoError(t, err)
	a, err := NewAnalysis(g, &Inputs{Targets: []string{"target", "sink"}})
	require.NoError(t, err)
	return a
}

func TestWriteExplanation_CallGraph(t *testing.T) {
	a := callGraphAnalysis(t)
	var buf bytes.Buffer

	require.NoError(t, WriteExplanation(&buf, a.Explain("parse")))

	g := goldie.New(t)
	g.Assert(t, "cg_explain_parse", buf.Bytes())
}

func TestWriteExplanation_Unmatched(t *testing.T) {
	a := callGraphAnalysis(t)
	var buf bytes.Buffer

	require.NoError(t, WriteExplanation(&buf, a.Explain("absent")))

	assert.Equal(t, "identifier: absent\nmode: CG\noutcome: unmatched\n", buf.String())
}

func TestWriteExplanation_UnreachableCandidate(t *testing.T) {
	a := callGraphAnalysis(t)
	var buf bytes.Buffer

	require.NoError(t, WriteExplanation(&buf, a.Explain("helper")))

	assert.Contains(t, buf.String(), "outcome: unreachable\n")
	assert.Contains(t, buf.String(), "candidate Node0x14 {helper}\n  reaches nothing\n")
	assert.NotContains(t, buf.String(), "distance:")
}

func TestWriteExplanation_ControlFlowSeeds(t *testing.T) {
	g, err := dotgraph.ImportFile(fixture("cfg.main.dot"))
	require.NoError(t, err)
	a, err := NewAnalysis(g, &Inputs{
		Targets:     []string{"main.c:9"},
		CGDistances: CGDistances{"parse": 1.5},
		Callsites:   []Callsite{{Block: "main.c:3", Callee: "parse"}},
	})
	require.NoError(t, err)
	var buf bytes.Buffer

	require.NoError(t, WriteExplanation(&buf, a.Explain("main.c:3")))

	// main.c:3 reaches itself (seed 1.5) and main.c:9 in one hop.
	out := buf.String()
	assert.Contains(t, out, "mode: CFG\n")
	assert.Contains(t, out, "  seed main.c:3 (1.5) via Node0x2: length=0 reached=1 value=0.0625\n")
	assert.Contains(t, out, "  seed main.c:9 (0.0) via Node0x4: length=1 reached=1 value=0.5\n")
}

func TestExplanation_Best(t *testing.T) {
	e := callGraphAnalysis(t).Explain("parse")

	best, ok := e.Best()

	require.True(t, ok)
	assert.Equal(t, "Node0x11", best.Node.Name)
	assert.Equal(t, 2.0, best.Score)
}

func TestExplanation_BestUnresolved(t *testing.T) {
	e := callGraphAnalysis(t).Explain("helper")

	_, ok := e.Best()

	assert.False(t, ok)
}

func TestCandidate_NearestPrefersEarlierOnTie(t *testing.T) {
	c := Candidate{Terms: []Term{
		{Key: "a", PathLength: 3},
		{Key: "b", PathLength: 2},
		{Key: "c", PathLength: 2},
	}}

	term, ok := c.Nearest()

	require.True(t, ok)
	assert.Equal(t, "b", term.Key)

	_, ok = Candidate{}.Nearest()
	assert.False(t, ok)
}

func TestAnalysis_NearestPath(t *testing.T) {
	a := callGraphAnalysis(t)

	path, err := a.NearestPath(a.Explain("main"))

	require.NoError(t, err)
	var names []string
	for _, n := range path {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Node0x10", "Node0x11", "Node0x13"}, names)
}

func TestAnalysis_NearestPathUnresolved(t *testing.T) {
	a := callGraphAnalysis(t)

	_, err := a.NearestPath(a.Explain("absent"))

	assert.ErrorIs(t, err, dotgraph.ErrNoPath)
}
