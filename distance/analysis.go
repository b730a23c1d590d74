// Package distance computes how close program units are to a set of target
// locations.
//
// In call-graph mode every function gets the harmonic mean of its shortest
// path lengths to the target functions. In control-flow mode every basic
// block of one function gets a harmonic mean over the callsites of that
// function, each weighted by the call-graph distance of the callee. Smaller
// distances are closer.
package distance

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/proximity/dotgraph"
	"github.com/LegacyCodeHQ/proximity/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Config names the inputs and output of one run.
type Config struct {
	DotPath        string
	TargetsPath    string
	NamesPath      string
	OutPath        string
	CGDistancePath string
	CallsitesPath  string
	Match          MatchStrategy
	Jobs           int
	Scaled         bool
}

// Inputs holds the tables a run reads besides the graph. A nil CGDistances
// or Callsites means the table was not supplied.
type Inputs struct {
	Targets     []string
	CGDistances CGDistances
	Callsites   []Callsite
}

// LoadInputs reads the target file and, in control-flow mode, the CG-distance
// and callsite files named by cfg.
func LoadInputs(cfg Config, mode Mode) (*Inputs, error) {
	targets, err := ReadLinesFile(cfg.TargetsPath)
	if err != nil {
		return nil, err
	}
	in := &Inputs{Targets: targets}

	if mode == ModeCG {
		return in, nil
	}
	if cfg.CGDistancePath == "" {
		return nil, ErrMissingCGDistance
	}
	if cfg.CallsitesPath == "" {
		return nil, ErrMissingCallsites
	}

	if in.CGDistances, err = ReadCGDistancesFile(cfg.CGDistancePath); err != nil {
		return nil, err
	}
	if in.Callsites, err = ReadCallsitesFile(cfg.CallsitesPath); err != nil {
		return nil, err
	}
	if in.Callsites == nil {
		in.Callsites = []Callsite{}
	}
	return in, nil
}

// FunctionFromPath derives the function a control-flow graph file belongs to
// from names such as cfg.main.dot.
func FunctionFromPath(path string) string {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "cfg.") && strings.HasSuffix(base, ".dot") && len(base) > len("cfg..dot") {
		return strings.TrimSuffix(strings.TrimPrefix(base, "cfg."), ".dot")
	}
	parts := strings.Split(base, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Option configures an Analysis.
type Option func(*options)

type options struct {
	match    MatchStrategy
	logger   *slog.Logger
	function string
}

// WithMatchStrategy selects how identifiers are resolved to nodes.
func WithMatchStrategy(strategy MatchStrategy) Option {
	return func(o *options) {
		if strategy != "" {
			o.match = strategy
		}
	}
}

// WithLogger sets the logger progress and per-identifier diagnostics go to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFunction names the function a control-flow graph belongs to.
func WithFunction(name string) Option {
	return func(o *options) {
		o.function = name
	}
}

// Analysis is everything one distance run over one graph needs: the graph,
// its mode, the resolver and the engine holding the resolved targets or seed
// table. It is built once and read-only afterwards.
type Analysis struct {
	Graph    *dotgraph.Graph
	Mode     Mode
	Function string
	Resolver Resolver
	Engine   *Engine

	// Targets is the resolved target set (call-graph mode).
	Targets []dotgraph.Node
	// Seeds is the seed table (control-flow mode).
	Seeds *SeedTable

	logger *slog.Logger
}

// NewAnalysis selects the mode from the graph summary and resolves the targets
// or seed table from in.
func NewAnalysis(g *dotgraph.Graph, in *Inputs, opts ...Option) (*Analysis, error) {
	o := options{
		match:  MatchIndexed,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	mode := SelectMode(g.Summary())
	a := &Analysis{
		Graph:    g,
		Mode:     mode,
		Function: o.function,
		Resolver: NewResolver(g, mode, o.match),
		logger:   o.logger,
	}
	a.logger.Info("working mode", "mode", mode.String(), "match", string(o.match))

	if mode == ModeCG {
		a.logger.Info("loading targets", "lines", len(in.Targets))
		targets, err := ResolveTargets(a.Resolver, in.Targets)
		if err != nil {
			return nil, err
		}
		a.Targets = targets
		a.Engine = NewCallGraphEngine(g, a.Resolver, targets)
		a.logger.Info("resolved targets", "nodes", len(targets))
		return a, nil
	}

	if in.CGDistances == nil {
		return nil, ErrMissingCGDistance
	}
	if in.Callsites == nil {
		return nil, ErrMissingCallsites
	}

	a.logger.Info("loading cg distance", "function", a.Function, "functions", len(in.CGDistances))
	a.logger.Info("adding target blocks (if any)")
	seeds, pinned := BuildSeedTable(a.Resolver, in.CGDistances, in.Callsites, in.Targets)
	for _, key := range pinned {
		a.logger.Info("added target block", "block", key)
	}
	a.Seeds = seeds
	a.Engine = NewControlFlowEngine(g, a.Resolver, seeds)
	return a, nil
}

// Run computes the distance of every name. Results are in name order
// whatever the number of jobs; jobs below 1 run sequentially.
func (a *Analysis) Run(ctx context.Context, names []string, jobs int) ([]Result, error) {
	a.logger.Info("calculating distance", "names", len(names), "jobs", max(jobs, 1))

	results := make([]Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Engine.Distance(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if !r.OK() {
			a.logger.Debug("no distance", "identifier", r.Identifier, "reason", r.Outcome.String(), "candidates", r.Candidates)
		}
	}
	return results, nil
}

// Execute runs the whole pipeline described by cfg: import the graph, load
// the inputs, compute every name's distance and write the report.
func Execute(ctx context.Context, cfg Config, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	a, err := Prepare(cfg, logger)
	if err != nil {
		return Stats{}, err
	}

	names, err := ReadLinesFile(cfg.NamesPath)
	if err != nil {
		return Stats{}, err
	}

	results, err := a.Run(ctx, names, cfg.Jobs)
	if err != nil {
		return Stats{}, err
	}

	var opts []ReportOption
	if cfg.Scaled {
		opts = append(opts, WithInstrumentationScale())
	}
	if err := WriteReportFile(cfg.OutPath, results, opts...); err != nil {
		return Stats{}, err
	}

	stats := Tally(results)
	logger.Info("report written", "path", cfg.OutPath, "resolved", stats.Resolved,
		"unmatched", stats.Unmatched, "unreachable", stats.Unreachable)
	return stats, nil
}

// Prepare imports the graph named by cfg and builds its Analysis.
func Prepare(cfg Config, logger *slog.Logger) (*Analysis, error) {
	logger.Info("parsing graph", "path", cfg.DotPath)
	g, err := dotgraph.ImportFile(cfg.DotPath)
	if err != nil {
		return nil, err
	}
	summary := g.Summary()
	logger.Info("graph summary", "name", g.Name(), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	logger.Debug(summary)

	in, err := LoadInputs(cfg, SelectMode(summary))
	if err != nil {
		return nil, err
	}

	a, err := NewAnalysis(g, in,
		WithMatchStrategy(cfg.Match),
		WithLogger(logger),
		WithFunction(FunctionFromPath(cfg.DotPath)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.DotPath, err)
	}
	return a, nil
}
