package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/LegacyCodeHQ/proximity/dotgraph"
	"github.com/LegacyCodeHQ/proximity/internal/cliflags"
	"github.com/LegacyCodeHQ/proximity/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const cfgPattern = "cfg.*.dot"

type batchOptions struct {
	inputs *cliflags.Inputs
	dir    string
	scaled bool
}

// Cmd represents the batch command.
var Cmd = NewCommand()

// NewCommand returns a new batch command instance.
func NewCommand() *cobra.Command {
	opts := &batchOptions{
		inputs: cliflags.NewInputs(),
	}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute basic block distances for every control-flow graph in a directory",
		Long: `Compute the basic block distances of every cfg.<function>.dot file in a
directory and write them to a single report, one function after another in
file name order.

The call graph distances, callsite map, targets and names are read once and
shared by every function. Up to --jobs graphs are processed concurrently.

Examples:
  proximity batch -i dot-files -t BBtargets.txt -n BBnames.txt \
    -c distance.callgraph.txt -s BBcalls.txt -o distance.cfg.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "i", "", "Directory containing cfg.<function>.dot files")
	_ = cmd.MarkFlagRequired("dir")
	opts.inputs.BindTables(cmd)
	opts.inputs.BindNames(cmd)
	opts.inputs.BindOutput(cmd)
	cmd.Flags().BoolVar(&opts.scaled, "scaled", false, "Write int(100*distance) as embedded by the instrumentation pass")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *batchOptions) error {
	cfg, err := opts.inputs.Resolve()
	if err != nil {
		return err
	}
	logger := logging.FromCommand(cmd)

	paths, err := filepath.Glob(filepath.Join(opts.dir, cfgPattern))
	if err != nil {
		return fmt.Errorf("failed to list control-flow graphs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found in %s", cfgPattern, opts.dir)
	}
	sort.Strings(paths)

	in, err := distance.LoadInputs(cfg, distance.ModeCFG)
	if err != nil {
		return err
	}
	names, err := distance.ReadLinesFile(cfg.NamesPath)
	if err != nil {
		return err
	}

	results, err := computeAll(cmd.Context(), paths, in, names, cfg, logger)
	if err != nil {
		return err
	}

	var reportOpts []distance.ReportOption
	if opts.scaled {
		reportOpts = append(reportOpts, distance.WithInstrumentationScale())
	}
	if err := distance.WriteReportFile(cfg.OutPath, results, reportOpts...); err != nil {
		return err
	}

	stats := distance.Tally(results)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d functions, %d block distances written to %s\n",
		len(paths), stats.Resolved, cfg.OutPath)
	return err
}

// computeAll scores every name against every graph and returns the results
// grouped by graph in path order.
func computeAll(ctx context.Context, paths []string, in *distance.Inputs, names []string, cfg distance.Config, logger *slog.Logger) ([]distance.Result, error) {
	perGraph := make([][]distance.Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			results, err := computeGraph(gctx, path, in, names, cfg.Match, logger)
			if err != nil {
				return err
			}
			perGraph[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []distance.Result
	for _, results := range perGraph {
		all = append(all, results...)
	}
	return all, nil
}

func computeGraph(ctx context.Context, path string, in *distance.Inputs, names []string, match distance.MatchStrategy, logger *slog.Logger) ([]distance.Result, error) {
	function := distance.FunctionFromPath(path)
	logger = logger.With("function", function)

	graph, err := dotgraph.ImportFile(path)
	if err != nil {
		return nil, err
	}
	if mode := distance.SelectMode(graph.Summary()); mode != distance.ModeCFG {
		return nil, fmt.Errorf("%s: expected a control-flow graph, got a %s graph", path, mode)
	}

	a, err := distance.NewAnalysis(graph, in,
		distance.WithMatchStrategy(match),
		distance.WithLogger(logger),
		distance.WithFunction(function))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a.Run(ctx, names, 1)
}
