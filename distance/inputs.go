package distance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const maxLineLength = 1024 * 1024

// CGDistances maps a function name to its call-graph distance.
type CGDistances map[string]float64

// Callsite records that the basic block Block calls the function Callee.
type Callsite struct {
	Block  string
	Callee string
}

// ReadLines returns the whitespace-trimmed lines of r, skipping blank ones.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	err := scanLines(r, func(_ int, line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines, err
}

// ReadCGDistances parses "function,distance" lines. A function listed twice
// keeps its last distance.
func ReadCGDistances(r io.Reader) (CGDistances, error) {
	distances := make(CGDistances)
	err := scanLines(r, func(n int, line string) error {
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return fmt.Errorf("line %d: %q: %w", n, line, ErrMalformedLine)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return fmt.Errorf("line %d: %q: %w", n, line, ErrMalformedLine)
		}
		distances[fields[0]] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return distances, nil
}

// ReadCallsites parses "block,callee" lines in file order. Blocks and callees
// may repeat.
func ReadCallsites(r io.Reader) ([]Callsite, error) {
	var callsites []Callsite
	err := scanLines(r, func(n int, line string) error {
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return fmt.Errorf("line %d: %q: %w", n, line, ErrMalformedLine)
		}
		callsites = append(callsites, Callsite{Block: fields[0], Callee: fields[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return callsites, nil
}

// ReadLinesFile reads a newline-delimited file with ReadLines.
func ReadLinesFile(path string) ([]string, error) {
	return readFile(path, ReadLines)
}

// ReadCGDistancesFile reads a CG-distance file with ReadCGDistances.
func ReadCGDistancesFile(path string) (CGDistances, error) {
	return readFile(path, ReadCGDistances)
}

// ReadCallsitesFile reads a callsite file with ReadCallsites.
func ReadCallsitesFile(path string) ([]Callsite, error) {
	return readFile(path, ReadCallsites)
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return v, nil
}

func scanLines(r io.Reader, visit func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := visit(n, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
