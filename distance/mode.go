package distance

import "strings"

// callGraphMarker is the fragment of a graph summary that identifies a
// whole-program call graph. LLVM names its call graph dumps "Call graph".
const callGraphMarker = "Name: Call graph"

// Mode selects how identifiers are matched and which distance algorithm runs.
type Mode int

const (
	// ModeCFG works on a single function's control-flow graph; identifiers
	// are basic-block keys such as main.c:12.
	ModeCFG Mode = iota
	// ModeCG works on the whole-program call graph; identifiers are
	// function names.
	ModeCG
)

func (m Mode) String() string {
	if m == ModeCG {
		return "CG"
	}
	return "CFG"
}

// SelectMode inspects a graph summary and picks call-graph mode when it
// names a call graph, control-flow mode otherwise.
func SelectMode(summary string) Mode {
	if strings.Contains(summary, callGraphMarker) {
		return ModeCG
	}
	return ModeCFG
}
