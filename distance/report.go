package distance

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// instrumentationScale is the factor the instrumentation pass applies before
// truncating a distance to an integer.
const instrumentationScale = 100.0

// InstrumentationValue converts a distance to the integer the instrumentation
// pass embeds for a basic block.
func InstrumentationValue(distance float64) int {
	return int(instrumentationScale * distance)
}

// FormatDistance renders a distance in its shortest round-trip decimal form,
// keeping a fractional part for integral values: 2.0, 0.3333333333333333,
// 1e-05, 1e+16.
func FormatDistance(d float64) string {
	if d == 0 {
		return "0.0"
	}
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return strconv.FormatFloat(d, 'g', -1, 64)
	}

	abs := math.Abs(d)
	if abs < 1e-4 || abs >= 1e16 {
		return strconv.FormatFloat(d, 'e', -1, 64)
	}

	s := strconv.FormatFloat(d, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ReportOption configures WriteReport.
type ReportOption func(*reportOptions)

type reportOptions struct {
	scaled bool
}

// WithInstrumentationScale writes InstrumentationValue(distance) instead of
// the distance itself.
func WithInstrumentationScale() ReportOption {
	return func(o *reportOptions) {
		o.scaled = true
	}
}

// WriteReport writes one "identifier,distance" line per resolved result, in
// result order. Unresolved results are skipped.
func WriteReport(w io.Writer, results []Result, opts ...ReportOption) error {
	var o reportOptions
	for _, opt := range opts {
		opt(&o)
	}

	bw := bufio.NewWriter(w)
	for _, r := range results {
		if !r.OK() {
			continue
		}
		value := FormatDistance(r.Distance)
		if o.scaled {
			value = strconv.Itoa(InstrumentationValue(r.Distance))
		}
		if _, err := fmt.Fprintf(bw, "%s,%s\n", r.Identifier, value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteReportFile creates or truncates path and writes the report to it.
func WriteReportFile(path string, results []Result, opts ...ReportOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}

	if err := WriteReport(f, results, opts...); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// Stats counts query outcomes.
type Stats struct {
	Names       int
	Resolved    int
	Unmatched   int
	Unreachable int
}

// Tally counts the outcomes of a result set.
func Tally(results []Result) Stats {
	s := Stats{Names: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case Resolved:
			s.Resolved++
		case Unmatched:
			s.Unmatched++
		case Unreachable:
			s.Unreachable++
		}
	}
	return s
}
