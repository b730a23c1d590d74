package compute

import (
	"fmt"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/LegacyCodeHQ/proximity/internal/cliflags"
	"github.com/LegacyCodeHQ/proximity/internal/logging"
	"github.com/spf13/cobra"
)

type computeOptions struct {
	inputs *cliflags.Inputs
	scaled bool
}

// Cmd represents the compute command.
var Cmd = NewCommand()

// NewCommand returns a new compute command instance.
func NewCommand() *cobra.Command {
	opts := &computeOptions{
		inputs: cliflags.NewInputs(),
	}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the distance of every name in a call graph or control-flow graph",
		Long: `Compute the distance of every function (call graph) or basic block
(control-flow graph) listed in the names file and write one "name,distance"
line per resolved name.

The mode is chosen from the graph: a graph named "Call graph" is scored
against the target functions, any other graph is a single function's
control-flow graph and additionally needs the call graph distances (-c) and
the callsite map (-s).

Examples:
  proximity compute -d callgraph.dot -t Ftargets.txt -n Fnames.txt -o distance.callgraph.txt
  proximity compute -d cfg.main.dot -t BBtargets.txt -n BBnames.txt \
    -c distance.callgraph.txt -s BBcalls.txt -o distance.cfg.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompute(cmd, opts)
		},
	}

	opts.inputs.BindGraph(cmd)
	opts.inputs.BindTables(cmd)
	opts.inputs.BindNames(cmd)
	opts.inputs.BindOutput(cmd)
	cmd.Flags().BoolVar(&opts.scaled, "scaled", false, "Write int(100*distance) as embedded by the instrumentation pass")

	return cmd
}

func runCompute(cmd *cobra.Command, opts *computeOptions) error {
	cfg, err := opts.inputs.Resolve()
	if err != nil {
		return err
	}
	cfg.Scaled = opts.scaled

	stats, err := distance.Execute(cmd.Context(), cfg, logging.FromCommand(cmd))
	if err != nil {
		return fmt.Errorf("failed to compute distance: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d of %d names have a distance (%d unmatched, %d unreachable)\n",
		stats.Resolved, stats.Names, stats.Unmatched, stats.Unreachable)
	return err
}
