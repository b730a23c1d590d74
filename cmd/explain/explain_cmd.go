package explain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/proximity/distance"
	"github.com/LegacyCodeHQ/proximity/dotgraph"
	"github.com/LegacyCodeHQ/proximity/internal/cliflags"
	"github.com/LegacyCodeHQ/proximity/internal/logging"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatDOT  = "dot"
)

type explainOptions struct {
	inputs       *cliflags.Inputs
	outputFormat string
}

// Cmd represents the explain command.
var Cmd = NewCommand()

// NewCommand returns a new explain command instance.
func NewCommand() *cobra.Command {
	opts := &explainOptions{
		inputs:       cliflags.NewInputs(),
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "explain <name>",
		Short: "Show how the distance of one function or basic block is made up",
		Long: `Show every graph node a name resolves to, the targets or seed callsites
each one reaches, the path lengths and the harmonic terms they contribute.

With --format dot the shortest path from the closest candidate to its nearest
target is printed as a Graphviz digraph instead.

Examples:
  proximity explain -d callgraph.dot -t Ftargets.txt parse
  proximity explain -d cfg.main.dot -t BBtargets.txt -c distance.callgraph.txt -s BBcalls.txt main.c:12
  proximity explain -d callgraph.dot -t Ftargets.txt --format dot parse | dot -Tsvg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, opts, args[0])
		},
	}

	opts.inputs.BindGraph(cmd)
	opts.inputs.BindTables(cmd)
	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", supportedFormats()))

	return cmd
}

func runExplain(cmd *cobra.Command, opts *explainOptions, name string) error {
	if !isSupportedFormat(opts.outputFormat) {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, supportedFormats())
	}

	cfg, err := opts.inputs.Resolve()
	if err != nil {
		return err
	}

	a, err := distance.Prepare(cfg, logging.FromCommand(cmd))
	if err != nil {
		return err
	}
	e := a.Explain(name)

	if opts.outputFormat == formatText {
		return distance.WriteExplanation(cmd.OutOrStdout(), e)
	}

	path, err := a.NearestPath(e)
	if errors.Is(err, dotgraph.ErrNoPath) {
		return fmt.Errorf("%s has no distance (%s)", name, e.Result.Outcome)
	}
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s: %s", name, distance.FormatDistance(e.Result.Distance))
	return dotgraph.WritePathDOT(cmd.OutOrStdout(), title, path)
}

func supportedFormats() string {
	return strings.Join([]string{formatText, formatDOT}, ", ")
}

func isSupportedFormat(format string) bool {
	return format == formatText || format == formatDOT
}
