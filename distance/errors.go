package distance

import "errors"

// Sentinel errors for distance computation.
var (
	// ErrNoTargets is returned in call-graph mode when no line of the target
	// file resolves to a node of the graph. A run without targets has nothing
	// to measure against.
	ErrNoTargets = errors.New("no targets available")

	// ErrMissingCGDistance is returned in control-flow mode when the
	// call-graph distance file was not supplied.
	ErrMissingCGDistance = errors.New("specify file containing CG-level distance (-c)")

	// ErrMissingCallsites is returned in control-flow mode when the map from
	// basic blocks to called functions was not supplied.
	ErrMissingCallsites = errors.New("specify file containing mapping between basic blocks and called functions (-s)")

	// ErrMalformedLine is returned when a CG-distance or callsite line does
	// not have the expected "key,value" shape.
	ErrMalformedLine = errors.New("malformed line")
)
